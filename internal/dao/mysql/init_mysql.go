package mysql

import (
	"fmt"

	"github.com/Avatara12345/Chat-Application/internal/config"
	"github.com/Avatara12345/Chat-Application/internal/model"

	"go.uber.org/zap"
	mysqldriver "gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// GormDB is the global database handle, set by Init.
var GormDB *gorm.DB

// Repos is the global repository aggregate, set by Init.
var Repos *Repositories

// Init opens the MySQL connection, migrates the schema and builds the
// repository aggregate.
func Init() {
	conf := config.GetConfig()
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		conf.MysqlConfig.User,
		conf.MysqlConfig.Password,
		conf.MysqlConfig.Host,
		conf.MysqlConfig.Port,
		conf.MysqlConfig.DatabaseName,
	)

	db, err := gorm.Open(mysqldriver.Open(dsn), &gorm.Config{})
	if err != nil {
		zap.L().Fatal("failed to connect to mysql", zap.Error(err))
	}

	if err := db.AutoMigrate(
		&model.User{},
		&model.Session{},
		&model.Message{},
	); err != nil {
		zap.L().Fatal("failed to migrate schema", zap.Error(err))
	}

	GormDB = db
	Repos = NewRepositories(db)
}
