package main

import (
	"log"
	"net/http"
	"os"
	"workshop/account"
	"workshop/bizerror"
	"workshop/client/s3"
	"workshop/domain"
	"workshop/domain/entry"
	"workshop/domain/namespace"
	"workshop/domain/notification"
	"workshop/infra/tracing"
	"workshop/persistence"
	"workshop/servehttp"
	"workshop/session"

	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("service start")

	dbConfig, err := persistence.ParseDatabaseConfigFromEnv()
	if err != nil {
		log.Fatalf("parse database config failed %v\n", err)
	}

	// create database (no conflict)
	if dbConfig.DriverType == "mysql" {
		if err := persistence.PrepareMysqlDatabase(dbConfig.DriverArgs); err != nil {
			log.Fatalf("failed to prepare database %v\n", err)
		}
	}

	// connect database
	ds := &persistence.DataSourceManager{DatabaseConfig: dbConfig}
	if err := ds.Start(); err != nil {
		log.Fatalf("database connection failed %v\n", err)
	}
	defer ds.Stop()

	// database migration (race condition)
	err = ds.GormDB().AutoMigrate(&domain.Partner{}, &domain.Project{}, &domain.DataEntry{}, &account.User{}).Error
	if err != nil {
		log.Fatalf("database migration failed %v\n", err)
	}

	if err := account.DefaultSecurityConfiguration(ds); err != nil {
		log.Fatalf("security bootstrap failed %v\n", err)
	}

	tracingCloser, err := tracing.Bootstrap()
	if err != nil {
		log.Fatalf("tracing bootstrap failed %v\n", err)
	}
	defer tracingCloser.Close()

	s3.Bootstrap()

	engine := gin.New()
	engine.Use(gin.Logger(), tracing.TracingIngress(), bizerror.ErrorHandling())
	engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "workshop")
	})

	accountSvc := account.NewAccountManager(ds)
	entrySvc := entry.NewEntryManager(ds)
	partnerSvc := namespace.NewPartnerManager(ds)
	projectSvc := namespace.NewProjectManager(ds)
	notificationSvc := notification.NewNotificationManager(ds)

	servehttp.RegisterSessionHandler(engine, accountSvc)
	servehttp.RegisterUserHandler(engine, accountSvc, session.SimpleAuthFilter())
	servehttp.RegisterEntryHandler(engine, entrySvc, session.SimpleAuthFilter())
	servehttp.RegisterPartnerHandler(engine, partnerSvc, projectSvc, session.SimpleAuthFilter())
	servehttp.RegisterProjectHandler(engine, projectSvc, session.SimpleAuthFilter())
	servehttp.RegisterNotificationHandler(engine, notificationSvc, session.SimpleAuthFilter())

	port := os.Getenv("PORT")
	if port == "" {
		port = "80"
	}
	if err := engine.Run(":" + port); err != nil {
		panic(err)
	}
}
