package main

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/go-sql-driver/mysql"
	"github.com/spf13/pflag"

	"minebot/internal/config"
	"minebot/internal/database"
)

func main() {
	configPath := pflag.StringP("config", "c", "", "путь к config.yaml")
	drop := pflag.Bool("drop", false, "удалить базу перед созданием")
	pflag.Parse()

	c, err := config.InitConfig(*configPath)
	if err != nil {
		log.Fatalf("Ошибка чтения конфигурации: %v", err)
	}

	dsnCfg, err := mysql.ParseDSN(c.Database.DSN)
	if err != nil {
		log.Fatalf("Некорректный DSN: %v", err)
	}
	dbName := dsnCfg.DBName
	if dbName == "" {
		log.Fatal("В DSN не указано имя базы")
	}

	// Подключаемся к MySQL без указания базы
	dsnCfg.DBName = ""
	db, err := sql.Open("mysql", dsnCfg.FormatDSN())
	if err != nil {
		log.Fatalf("Ошибка подключения к MySQL: %v", err)
	}
	defer db.Close()

	if *drop {
		if _, err := db.Exec("DROP DATABASE IF EXISTS " + quoteIdent(dbName)); err != nil {
			log.Fatalf("Ошибка удаления базы: %v", err)
		}
		fmt.Printf("База данных %s удалена (если была)\n", dbName)
	}

	// Создаём базу
	_, err = db.Exec("CREATE DATABASE IF NOT EXISTS " + quoteIdent(dbName) + " CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci")
	if err != nil {
		log.Fatalf("Ошибка создания базы: %v", err)
	}
	fmt.Printf("База данных %s готова\n", dbName)

	// Подключаемся к новой базе
	db2, err := database.Open(c.Database.DSN)
	if err != nil {
		log.Fatalf("Ошибка подключения к новой базе: %v", err)
	}
	defer db2.Close()

	if err := database.NewDatabaseManager(db2, false, nil).EnsureSchema(); err != nil {
		log.Fatalf("Ошибка создания таблиц: %v", err)
	}
	if _, err := db2.Exec("INSERT INTO status (current_status) VALUES (?)", database.StatusIdle); err != nil {
		log.Fatalf("Ошибка записи начального статуса: %v", err)
	}

	fmt.Println("Инициализация базы завершена!")
}

func quoteIdent(name string) string {
	return "`" + name + "`"
}
