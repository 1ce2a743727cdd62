//go:build wireinject
// +build wireinject

// Wire依赖注入配置
// 运行 `wire gen ./cmd/api` 生成wire_gen.go
package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	goredis "github.com/redis/go-redis/v9"

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
	"github.com/luoyang/bookmall/pkg/mq"
)

// infrastructureSet 基础设施层依赖
var infrastructureSet = wire.NewSet(
	config.Load,
	mysql.NewDB,
	redis.NewClient,
	provideMQPublisher,
	provideEventPublisher,
)

// repositorySet 仓储层依赖
var repositorySet = wire.NewSet(
	mysql.NewBookRepository,
	mysql.NewCartRepository,
	mysql.NewOrderRepository,
	mysql.NewPromotionRepository,
	mysql.NewStoreRepository,
	mysql.NewStoreStockRepository,
	mysql.NewTransferRepository,
	mysql.NewTxManager,
	wire.Bind(new(apporder.TxManager), new(*mysql.TxManager)),
	wire.Bind(new(appstore.TxManager), new(*mysql.TxManager)),
)

// domainSet 领域层依赖
var domainSet = wire.NewSet(
	book.NewService,
	cart.NewService,
)

// applicationSet 应用层依赖
var applicationSet = wire.NewSet(
	appbook.NewPublishBookUseCase,
	appbook.NewListBooksUseCase,
	appbook.NewGetBookUseCase,
	appcart.NewAddItemUseCase,
	appcart.NewUpdateItemUseCase,
	appcart.NewGetCartUseCase,
	apporder.NewCreateOrderUseCase,
	apporder.NewCancelOrderUseCase,
	apporder.NewUpdateStatusUseCase,
	apporder.NewGetOrderUseCase,
	apppromotion.NewSavePromotionUseCase,
	apppromotion.NewValidatePromotionUseCase,
	appstore.NewManageStoreUseCase,
	appstore.NewTransferStockUseCase,
)

// middlewareSet 中间件依赖
var middlewareSet = wire.NewSet(
	provideJWTManager,
	provideTokenBlacklist,
	middleware.NewAuthMiddleware,
)

// handlerSet HTTP处理器依赖
var handlerSet = wire.NewSet(
	handler.NewBookHandler,
	handler.NewCartHandler,
	handler.NewOrderHandler,
	handler.NewPromotionHandler,
	handler.NewStoreHandler,
)

// provideJWTManager 从配置创建JWT管理器
func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpire)
}

// provideTokenBlacklist 从Redis客户端创建令牌黑名单
func provideTokenBlacklist(client *goredis.Client) *redis.TokenBlacklist {
	return redis.NewTokenBlacklist(client)
}

// provideMQPublisher 按配置创建消息发布器
// MQ关闭时返回nil,事件发布变为空操作
func provideMQPublisher(cfg *config.Config) (*mq.Publisher, error) {
	if !cfg.MQ.Enabled {
		return nil, nil
	}
	return mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, "topic")
}

// provideEventPublisher 创建领域事件发布器
func provideEventPublisher(cfg *config.Config, mqPublisher *mq.Publisher) *event.Publisher {
	return event.NewPublisher(mqPublisher, cfg.MQ.Exchange)
}

// provideGinEngine 创建并配置Gin引擎
func provideGinEngine(
	cfg *config.Config,
	bookHandler *handler.BookHandler,
	cartHandler *handler.CartHandler,
	orderHandler *handler.OrderHandler,
	promotionHandler *handler.PromotionHandler,
	storeHandler *handler.StoreHandler,
	authMiddleware *middleware.AuthMiddleware,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.Metrics())

	registerRoutes(r, bookHandler, cartHandler, orderHandler, promotionHandler, storeHandler, authMiddleware)

	return r
}

// InitializeApp 初始化整个应用
func InitializeApp() (*gin.Engine, error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		middlewareSet,
		handlerSet,
		provideGinEngine,
	)
	return nil, nil
}
