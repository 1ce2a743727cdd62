package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	appbook "github.com/luoyang/bookmall/internal/application/book"
	appcart "github.com/luoyang/bookmall/internal/application/cart"
	apporder "github.com/luoyang/bookmall/internal/application/order"
	apppromotion "github.com/luoyang/bookmall/internal/application/promotion"
	appstore "github.com/luoyang/bookmall/internal/application/store"
	"github.com/luoyang/bookmall/internal/domain/book"
	"github.com/luoyang/bookmall/internal/domain/cart"
	"github.com/luoyang/bookmall/internal/infrastructure/config"
	"github.com/luoyang/bookmall/internal/infrastructure/event"
	"github.com/luoyang/bookmall/internal/infrastructure/persistence/mysql"
	"github.com/luoyang/bookmall/internal/infrastructure/persistence/redis"
	"github.com/luoyang/bookmall/internal/interface/http/handler"
	"github.com/luoyang/bookmall/internal/interface/http/middleware"
	"github.com/luoyang/bookmall/pkg/jwt"
	"github.com/luoyang/bookmall/pkg/metrics"
	"github.com/luoyang/bookmall/pkg/mq"
	"github.com/luoyang/bookmall/pkg/response"
	"github.com/luoyang/bookmall/pkg/tracing"
)

// main 主程序入口
// 说明：手动依赖注入（wire.go提供Wire生成版本）
func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	fmt.Printf("✓ 配置加载成功\n")
	fmt.Printf("  - 服务端口: %d\n", cfg.Server.Port)
	fmt.Printf("  - 运行模式: %s\n", cfg.Server.Mode)
	fmt.Printf("  - 数据库: %s:%d/%s\n", cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)
	fmt.Printf("  - Redis: %s\n", cfg.Redis.Addr())

	// 2. 初始化监控指标
	metrics.InitMetrics()

	// 3. 初始化链路追踪（可选）
	if cfg.Tracing.Enabled {
		shutdown, err := tracing.InitTracer("bookmall", cfg.Tracing.Endpoint)
		if err != nil {
			log.Fatalf("初始化链路追踪失败: %v", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(ctx); err != nil {
				log.Printf("关闭链路追踪失败: %v", err)
			}
		}()
	}

	// 4. 初始化数据库连接
	db, err := mysql.NewDB(cfg)
	if err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}

	// 5. 初始化Redis连接
	redisClient, err := redis.NewClient(cfg)
	if err != nil {
		log.Fatalf("初始化Redis失败: %v", err)
	}

	// 6. 初始化消息队列（可选，事件发布失败不影响主流程）
	var mqPublisher *mq.Publisher
	if cfg.MQ.Enabled {
		mqPublisher, err = mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, "topic")
		if err != nil {
			log.Fatalf("初始化消息队列失败: %v", err)
		}
		defer mqPublisher.Close()
	}
	events := event.NewPublisher(mqPublisher, cfg.MQ.Exchange)

	// 7. 依赖注入（手动组装）
	// Repository ← Service ← UseCase ← Handler

	// 基础设施层
	bookRepo := mysql.NewBookRepository(db)
	cartRepo := mysql.NewCartRepository(db)
	orderRepo := mysql.NewOrderRepository(db)
	promoRepo := mysql.NewPromotionRepository(db)
	storeRepo := mysql.NewStoreRepository(db)
	storeStockRepo := mysql.NewStoreStockRepository(db)
	transferRepo := mysql.NewTransferRepository(db)
	txManager := mysql.NewTxManager(db)
	blacklist := redis.NewTokenBlacklist(redisClient)
	jwtManager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpire)

	// 领域层
	bookService := book.NewService(bookRepo)
	cartService := cart.NewService(cartRepo, bookRepo)

	// 应用层
	publishBookUseCase := appbook.NewPublishBookUseCase(bookService)
	listBooksUseCase := appbook.NewListBooksUseCase(bookService)
	getBookUseCase := appbook.NewGetBookUseCase(bookService)
	addItemUseCase := appcart.NewAddItemUseCase(cartService)
	updateItemUseCase := appcart.NewUpdateItemUseCase(cartService)
	getCartUseCase := appcart.NewGetCartUseCase(cartService, bookRepo)
	createOrderUseCase := apporder.NewCreateOrderUseCase(orderRepo, cartRepo, bookRepo, promoRepo, txManager, events)
	cancelOrderUseCase := apporder.NewCancelOrderUseCase(orderRepo, bookRepo, txManager, events)
	updateStatusUseCase := apporder.NewUpdateStatusUseCase(orderRepo)
	getOrderUseCase := apporder.NewGetOrderUseCase(orderRepo)
	savePromotionUseCase := apppromotion.NewSavePromotionUseCase(promoRepo)
	validatePromotionUseCase := apppromotion.NewValidatePromotionUseCase(promoRepo, cartRepo, bookRepo)
	manageStoreUseCase := appstore.NewManageStoreUseCase(storeRepo, storeStockRepo, bookRepo)
	transferStockUseCase := appstore.NewTransferStockUseCase(storeRepo, storeStockRepo, transferRepo, bookRepo, txManager, events)

	// 接口层
	bookHandler := handler.NewBookHandler(publishBookUseCase, listBooksUseCase, getBookUseCase)
	cartHandler := handler.NewCartHandler(addItemUseCase, updateItemUseCase, getCartUseCase)
	orderHandler := handler.NewOrderHandler(createOrderUseCase, cancelOrderUseCase, updateStatusUseCase, getOrderUseCase)
	promotionHandler := handler.NewPromotionHandler(savePromotionUseCase, validatePromotionUseCase)
	storeHandler := handler.NewStoreHandler(manageStoreUseCase, transferStockUseCase)
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, blacklist)

	// 8. 初始化Gin引擎
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(middleware.Metrics())

	// 9. 注册路由
	registerRoutes(r, bookHandler, cartHandler, orderHandler, promotionHandler, storeHandler, authMiddleware)

	// 10. 启动服务（支持优雅关闭）
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		fmt.Printf("\n🚀 服务启动成功！\n")
		fmt.Printf("   访问地址: http://localhost%s\n", addr)
		fmt.Printf("   健康检查: http://localhost%s/ping\n", addr)
		fmt.Printf("   API文档:  http://localhost%s/swagger/index.html\n", addr)
		fmt.Printf("   监控指标: http://localhost%s/metrics\n", addr)
		fmt.Printf("\n按Ctrl+C停止服务\n\n")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("启动服务失败: %v", err)
		}
	}()

	<-ctx.Done()
	stop()
	log.Println("正在关闭服务...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("关闭服务失败: %v", err)
	}
	log.Println("服务已退出")
}

// registerRoutes 注册路由
func registerRoutes(
	r *gin.Engine,
	bookHandler *handler.BookHandler,
	cartHandler *handler.CartHandler,
	orderHandler *handler.OrderHandler,
	promotionHandler *handler.PromotionHandler,
	storeHandler *handler.StoreHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// Prometheus指标
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		// 图书模块
		books := v1.Group("/books")
		{
			// 公开接口
			books.GET("", bookHandler.ListBooks)
			books.GET("/:id", bookHandler.GetBook)

			// 上架需要员工权限
			books.POST("",
				authMiddleware.RequireAuth(),
				middleware.RequireCapability(middleware.CapManageBooks),
				bookHandler.PublishBook)
		}

		// 购物车模块（需要登录）
		cartGroup := v1.Group("/cart")
		cartGroup.Use(authMiddleware.RequireAuth())
		{
			cartGroup.GET("", cartHandler.GetCart)
			cartGroup.POST("", cartHandler.AddItem)
			cartGroup.PATCH("/:bookId", cartHandler.UpdateItem)
			cartGroup.DELETE("/:bookId", cartHandler.RemoveItem)
		}

		// 订单模块（需要登录）
		orders := v1.Group("/orders")
		orders.Use(authMiddleware.RequireAuth())
		{
			orders.POST("", orderHandler.CreateOrder)
			orders.GET("", orderHandler.ListOrders)
			orders.GET("/:id", orderHandler.GetOrder)
			orders.DELETE("/:id", orderHandler.CancelOrder)

			// 状态推进是员工操作
			orders.PATCH("/:id/status",
				middleware.RequireCapability(middleware.CapManageOrders),
				orderHandler.UpdateStatus)
		}

		// 优惠码模块
		promotions := v1.Group("/promotions")
		promotions.Use(authMiddleware.RequireAuth())
		{
			// 结算页预览，所有登录用户可用
			promotions.POST("/validate", promotionHandler.ValidatePromotion)

			// 管理接口
			promotions.POST("",
				middleware.RequireCapability(middleware.CapManagePromotions),
				promotionHandler.CreatePromotion)
			promotions.PUT("",
				middleware.RequireCapability(middleware.CapManagePromotions),
				promotionHandler.UpdatePromotion)
		}

		// 门店模块（全部需要员工权限）
		stores := v1.Group("/stores")
		stores.Use(authMiddleware.RequireAuth())
		{
			stores.POST("",
				middleware.RequireCapability(middleware.CapManageStores),
				storeHandler.CreateStore)
			stores.PUT("/:id/stocks/:bookId",
				middleware.RequireCapability(middleware.CapManageStores),
				storeHandler.SetStock)
			stores.GET("/:id/stocks",
				middleware.RequireCapability(middleware.CapTransferStock),
				storeHandler.ListStock)
			stores.POST("/transfer-from-warehouse",
				middleware.RequireCapability(middleware.CapTransferStock),
				storeHandler.TransferStock)
		}
	}
}
