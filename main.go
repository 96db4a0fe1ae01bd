package main

import (
	"log"

	"github.com/joho/godotenv"

	"Shop/internal/config"
	"Shop/internal/db"
	"Shop/internal/events"
)

// Точка входа подготавливает хранилище: грузит конфигурацию, открывает
// пул соединений, выполняет миграции и подключает диагностического
// подписчика. Слои сайта и бота работают поверх готового db.Store.
func main() {
	// --- Блок инициализации ---
	err := godotenv.Load()
	if err != nil {
		log.Println("Предупреждение: не удалось загрузить файл .env. Переменные окружения должны быть установлены иным способом.")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Критическая ошибка: не удалось загрузить конфигурацию: %v", err)
	}

	store, err := db.InitStore(cfg, events.LogSubscriber)
	if err != nil {
		log.Fatalf("Критическая ошибка: не удалось инициализировать базу данных: %v", err)
	}
	defer store.Close()

	log.Println("Хранилище магазина готово к работе.")
}
