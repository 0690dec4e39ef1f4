// File: cmd/service/main.go
// @title        Recipe API
// @version      1.0
// @description  多使用者食譜管理後端 API 文件
// @host         localhost:8080
// @BasePath     /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"recipe-api/internal/cache"
	"recipe-api/internal/database"
	"recipe-api/internal/model"
	"recipe-api/internal/router"
	"recipe-api/internal/service"
	"recipe-api/internal/storage"
	"recipe-api/internal/store"
	"recipe-api/internal/worker"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	_ "recipe-api/docs" // 引入 swag 產出的 docs

	echoSwagger "github.com/swaggo/echo-swagger"
)

// CustomValidator wraps go-playground/validator for Echo
// swagger:ignore
type CustomValidator struct {
	validator *validator.Validate
}

// Validate calls the underlying validator
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

var (
	newPgxPool      = database.NewPgxPool
	waitForDB       = database.WaitForDB
	newRedisClient  = cache.NewRedisClient
	runMigrationsFn = database.RunMigrations
	newImages       = storage.NewImages
	newWorkerPool   = worker.NewPool
	normalizeEmail  = service.NormalizeEmail
	hashPassword    = service.HashPassword
	getUserByEmail  = store.GetUserByEmail
	createSuperuser = store.CreateSuperuser
	startServer     = func(e *echo.Echo, addr string) error { return e.Start(addr) }
	exitFunc        = os.Exit
)

// ensureSuperuser 依 ADMIN_EMAIL / ADMIN_PASSWORD 建立管理員帳號，
// 已存在時不動作。兩個變數缺一即跳過。
func ensureSuperuser(ctx context.Context, db database.DB) error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return nil
	}

	email, err := normalizeEmail(email)
	if err != nil {
		return fmt.Errorf("無效的 ADMIN_EMAIL: %v", err)
	}
	if _, err := getUserByEmail(ctx, db, email); err == nil {
		return nil
	}

	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	_, err = createSuperuser(ctx, db, &model.User{
		Name:         "admin",
		Email:        email,
		PasswordHash: hash,
	})
	return err
}

func run() error {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return fmt.Errorf("環境變數 DATABASE_URL 未設定")
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		return fmt.Errorf("環境變數 REDIS_ADDR 未設定")
	}

	redisDBStr := os.Getenv("REDIS_DB")
	if redisDBStr == "" {
		return fmt.Errorf("環境變數 REDIS_DB 未設定")
	}
	redisIndex, err := strconv.Atoi(redisDBStr)
	if err != nil {
		return fmt.Errorf("無效的 REDIS_DB: %v", err)
	}

	redisPassword := os.Getenv("REDIS_PASSWORD")

	mediaRoot := os.Getenv("MEDIA_ROOT")
	if mediaRoot == "" {
		mediaRoot = "media"
	}

	workerCount := 1
	if v := os.Getenv("WORKER_COUNT"); v != "" {
		c, err := strconv.Atoi(v)
		if err != nil || c <= 0 {
			return fmt.Errorf("無效的 WORKER_COUNT: %v", err)
		}
		workerCount = c
	}

	db, err := newPgxPool(context.Background(), dbURL)
	if err != nil {
		return fmt.Errorf("DB 連線失敗: %v", err)
	}
	defer db.Close()

	// 等待資料庫就緒再跑 migration，容器啟動順序不可靠
	if err := waitForDB(context.Background(), db); err != nil {
		return fmt.Errorf("等待 DB 就緒失敗: %v", err)
	}

	if err := runMigrationsFn(dbURL); err != nil {
		return fmt.Errorf("Migration 執行失敗: %v", err)
	}

	redis, err := newRedisClient(redisAddr, redisPassword, redisIndex)
	if err != nil {
		return fmt.Errorf("Redis 連線失敗: %v", err)
	}
	defer redis.Close()

	images, err := newImages(mediaRoot)
	if err != nil {
		return fmt.Errorf("媒體目錄建立失敗: %v", err)
	}

	wp := newWorkerPool(workerCount)
	defer wp.Stop()

	if err := ensureSuperuser(context.Background(), db); err != nil {
		return fmt.Errorf("管理員帳號建立失敗: %v", err)
	}

	e := echo.New()
	e.Validator = &CustomValidator{validator: validator.New()}
	e.Debug = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	router.Setup(e, db, redis, images, wp)

	e.Static("/media", mediaRoot)
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	return startServer(e, ":8080")
}

func main() {
	if err := run(); err != nil {
		log.Print(err)
		exitFunc(1)
	}
}
