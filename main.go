package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ku-unplugged/livelog/config"
	"github.com/ku-unplugged/livelog/database"
	"github.com/ku-unplugged/livelog/logger"
	"github.com/ku-unplugged/livelog/web"
	"github.com/ku-unplugged/livelog/web/service"

	"github.com/op/go-logging"
	"github.com/spf13/cobra"
)

func runWebServer() {
	log.Printf("%v %v", config.GetName(), config.GetVersion())

	switch config.GetLogLevel() {
	case config.Debug:
		logger.InitLogger(logging.DEBUG)
	case config.Info:
		logger.InitLogger(logging.INFO)
	case config.Notice:
		logger.InitLogger(logging.NOTICE)
	case config.Warn:
		logger.InitLogger(logging.WARNING)
	case config.Error:
		logger.InitLogger(logging.ERROR)
	default:
		log.Fatal("unknown log level:", config.GetLogLevel())
	}

	if err := database.InitDB(config.GetDBPath()); err != nil {
		log.Fatal(err)
	}

	server := web.NewServer()
	if err := server.Start(); err != nil {
		log.Println(err)
		return
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGINT)
	for {
		sig := <-sigCh

		switch sig {
		case syscall.SIGHUP:
			if err := server.Stop(); err != nil {
				logger.Warning("stop server err:", err)
			}
			server = web.NewServer()
			if err := server.Start(); err != nil {
				log.Println(err)
				return
			}
		default:
			_ = server.Stop()
			_ = database.CloseDB()
			logger.CloseLogger()
			return
		}
	}
}

func resetPassword(email string, password string) {
	if err := database.InitDB(config.GetDBPath()); err != nil {
		fmt.Println(err)
		return
	}

	accountService := service.AccountService{}
	account, err := accountService.GetAccountByEmail(email)
	if err != nil {
		fmt.Println("account not found:", err)
		return
	}

	errs, err := accountService.UpdatePassword(account.Id, password, password)
	if err != nil {
		fmt.Println("reset password failed:", err)
		return
	}
	if errs.Any() {
		fmt.Println("reset password failed:", strings.Join(errs.Messages(), "; "))
		return
	}
	fmt.Println("reset password success")
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "livelog",
		Short: "live listing web app for the circle",
		Run: func(cmd *cobra.Command, args []string) {
			runWebServer()
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(config.GetVersion())
		},
	}

	var email, password string
	resetCmd := &cobra.Command{
		Use:   "reset-password",
		Short: "set a member's password directly",
		Run: func(cmd *cobra.Command, args []string) {
			resetPassword(email, password)
		},
	}
	resetCmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	resetCmd.Flags().StringVarP(&password, "password", "p", "", "new password")
	_ = resetCmd.MarkFlagRequired("email")
	_ = resetCmd.MarkFlagRequired("password")

	adminCmd := &cobra.Command{
		Use:   "admin",
		Short: "administrative commands",
	}
	adminCmd.AddCommand(resetCmd)

	rootCmd.AddCommand(versionCmd, adminCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
