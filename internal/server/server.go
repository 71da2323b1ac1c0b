package server

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/milkledger/internal/clock"
	"github.com/smallbiznis/milkledger/internal/config"
	customerdomain "github.com/smallbiznis/milkledger/internal/customer/domain"
	deliverydomain "github.com/smallbiznis/milkledger/internal/delivery/domain"
	"github.com/smallbiznis/milkledger/internal/observability"
	obsmiddleware "github.com/smallbiznis/milkledger/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/milkledger/internal/observability/metrics"
	obstracing "github.com/smallbiznis/milkledger/internal/observability/tracing"
	reportdomain "github.com/smallbiznis/milkledger/internal/report/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(run),
)

var registerTagNameOnce sync.Once

// useJSONFieldNames makes binding errors name fields the way clients send them.
func useJSONFieldNames() {
	registerTagNameOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return field.Name
			}
			return name
		})
	})
}

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	useJSONFieldNames()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

type Server struct {
	engine      *gin.Engine
	log         *zap.Logger
	clock       clock.Clock
	customerSvc customerdomain.Service
	deliverySvc deliverydomain.Service
	reportSvc   reportdomain.Service
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Log         *zap.Logger
	Clock       clock.Clock
	CustomerSvc customerdomain.Service
	DeliverySvc deliverydomain.Service
	ReportSvc   reportdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:      p.Gin,
		log:         p.Log.Named("http"),
		clock:       p.Clock,
		customerSvc: p.CustomerSvc,
		deliverySvc: p.DeliverySvc,
		reportSvc:   p.ReportSvc,
	}

	svc.registerCustomerRoutes()
	svc.registerRecordRoutes()
	svc.registerReportRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerCustomerRoutes() {
	customers := s.engine.Group("/customers")

	customers.GET("", s.ListCustomers)
	customers.GET("/all", s.ListAllCustomers)
	customers.POST("", s.CreateCustomer)
	customers.GET("/:id", s.GetCustomerByID)
	customers.PUT("/:id", s.UpdateCustomer)
	customers.DELETE("/:id", s.DeleteCustomer)
}

func (s *Server) registerRecordRoutes() {
	records := s.engine.Group("/records")

	records.GET("", s.ListRecords)
	records.POST("", s.CreateRecord)
	records.PUT("/:id", s.UpdateRecord)
	records.DELETE("/:id", s.DeleteRecord)
}

func (s *Server) registerReportRoutes() {
	reports := s.engine.Group("/reports")

	reports.GET("", s.GetReport)
	reports.GET("/export", s.ExportReport)
}

func run(lc fx.Lifecycle, srv *Server, cfg config.Config, log *zap.Logger) {
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return httpServer.Shutdown(shutdownCtx)
		},
	})
}
