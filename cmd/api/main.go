package main

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	httpadp "smart-loan-recovery/internal/adapter/http"
	appmw "smart-loan-recovery/internal/adapter/middleware"
	"smart-loan-recovery/internal/adapter/repository/mysql"
	"smart-loan-recovery/internal/config"
	loanDomain "smart-loan-recovery/internal/domain/loan"
	userDomain "smart-loan-recovery/internal/domain/user"
	"smart-loan-recovery/internal/infrastructure/cache"
	"smart-loan-recovery/internal/infrastructure/db"
	loanuc "smart-loan-recovery/internal/usecase/loan"
	recoveryuc "smart-loan-recovery/internal/usecase/recovery"
	useruc "smart-loan-recovery/internal/usecase/user"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	gdb, err := db.OpenGorm(cfg.DBDriver, cfg.DSN())
	if err != nil {
		log.Fatal(err)
	}
	if err := gdb.AutoMigrate(&userDomain.User{}, &loanDomain.Loan{}); err != nil {
		log.Fatal(err)
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatal(err)
	}

	userRepo := mysql.NewUserRepository(gdb)
	loanRepo := mysql.NewLoanRepository(gdb)
	tx := mysql.NewGormUoW(gdb)

	userUC := useruc.NewUsecase(userRepo)
	loanUC := loanuc.NewUsecase(loanRepo, tx)
	recoveryUC := recoveryuc.NewUsecase(loanRepo)

	sessionTTL := time.Duration(cfg.SessionTTLSecs) * time.Second
	sessions := appmw.NewSessionStore(rdb, sessionTTL)

	h := httpadp.NewHandler()
	uh := httpadp.NewUserHandler(userUC)
	ah := httpadp.NewAuthHandler(userUC, sessions, sessionTTL)
	lh := httpadp.NewLoanHandler(loanUC, userUC)
	rh := httpadp.NewRecoveryHandler(recoveryUC)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger(), echomw.Recover())
	e.Validator = httpadp.NewValidator()

	auth := sessions.Middleware()
	idem := appmw.Idempotency(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second)

	e.GET("/health", h.Health)

	e.POST("/users", uh.Register)
	e.GET("/users", uh.List)
	e.GET("/users/:user_id", uh.Get)

	e.POST("/auth/login", ah.Login)
	e.POST("/auth/logout", ah.Logout)
	e.GET("/auth/me", ah.Me, auth)

	e.POST("/loans", lh.Create, auth, idem)
	e.GET("/loans", lh.List)
	e.GET("/loans/:loan_id", lh.Get)
	e.POST("/loans/:loan_id/repayments", lh.RecordRepayment, auth, idem)

	e.POST("/overdues", lh.FlagOverdues, auth, idem)
	e.POST("/recommend/:loan_id", rh.Recommend, auth)

	addr := ":" + cfg.AppPort
	log.Printf("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
