/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package main

import (
	"io"
	"net/http"
	"os"

	"github.com/fatih/structs"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/nethesis/nas-telegram-bridge/bot"
	"github.com/nethesis/nas-telegram-bridge/configuration"
	"github.com/nethesis/nas-telegram-bridge/logs"
	"github.com/nethesis/nas-telegram-bridge/models"
	"github.com/nethesis/nas-telegram-bridge/synology"
)

func main() {
	// init logger
	logs.Init("nas-telegram-bridge")

	// load .env when present, ENV wins otherwise
	if err := godotenv.Load(); err != nil {
		logs.Log("[MAIN] no .env file found, using environment variables directly")
	}

	// init configuration
	configuration.Init()

	// create NAS session client
	nas := synology.New(
		configuration.Config.NASBaseURL,
		configuration.Config.NASUsername,
		configuration.Config.NASPassword,
		configuration.Config.NASForceIPv4,
		configuration.Config.NASTimeout,
	)

	// create bot
	b, err := bot.New(configuration.Config.TelegramBotToken, nas, configuration.Config.AllowedChatID)
	if err != nil {
		logs.Log("[MAIN] cannot start bot: " + err.Error())
		os.Exit(1)
	}

	// create cron to sweep idle NAS sessions
	c := cron.New()
	c.AddFunc("@every 10m", func() {
		nas.ExpireIdle(configuration.Config.SessionIdleTimeout)
	})
	c.Start()

	// run operational HTTP surface
	router := createRouter(nas, b.Username())
	go router.Run(configuration.Config.ListenAddress)

	// consume the update stream, blocks forever
	b.Run()
}

func createRouter(nas *synology.Client, botName string) *gin.Engine {
	// disable log to stdout when running in release mode
	if gin.Mode() == gin.ReleaseMode {
		gin.DefaultWriter = io.Discard
	}

	// init routers
	router := gin.New()
	router.RedirectTrailingSlash = false
	router.Use(
		gin.LoggerWithWriter(gin.DefaultWriter),
		gin.Recovery(),
	)

	// add default compression
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// cors configuration only in debug mode GIN_MODE=debug (default)
	if gin.Mode() == gin.DebugMode {
		// gin gonic cors conf
		corsConf := cors.DefaultConfig()
		corsConf.AllowHeaders = []string{"Authorization", "Content-Type", "Accept"}
		corsConf.AllowAllOrigins = true
		router.Use(cors.New(corsConf))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "healthy",
			"status":  "ok",
		})
	})

	router.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, structs.Map(models.StatusOK{
			Code:    200,
			Message: "status",
			Data: gin.H{
				"bot":           botName,
				"nas_logged_in": nas.LoggedIn(),
			},
		}))
	})

	return router
}
