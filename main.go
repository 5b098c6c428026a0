package main

import (
	"log"
	"strings"
	"time"

	"gallery/auth"
	"gallery/config"
	"gallery/db"
	"gallery/handlers"
	"gallery/models"
	"gallery/pipeline"
	"gallery/storage"
	"gallery/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	gormsessions "github.com/gin-contrib/sessions/gorm"
	"github.com/gin-gonic/autotls"
	"github.com/gin-gonic/gin"
)

const (
	sessionCookieName     = "token"
	sessionExpirationTime = 30 * 86400 // 30 days
)

func newObjectStore() storage.ObjectStore {
	if config.S3_BUCKET != "" {
		store, err := storage.NewS3Store(storage.S3Config{
			Bucket:          config.S3_BUCKET,
			Region:          config.S3_REGION,
			Endpoint:        config.S3_ENDPOINT,
			AccessKeyID:     config.S3_ACCESS_KEY_ID,
			SecretAccessKey: config.S3_SECRET_ACCESS_KEY,
			ForcePathStyle:  config.S3_FORCE_PATH_STYLE,
			PresignTTL:      time.Duration(config.PRESIGN_TTL_SECONDS) * time.Second,
		})
		if err != nil {
			log.Fatalf("Cannot initialise S3 store: %v", err)
		}
		log.Printf("Using S3 bucket %s", config.S3_BUCKET)
		return store
	}
	store, err := storage.NewDiskStore(config.DISK_STORE_DIR)
	if err != nil {
		log.Fatalf("Cannot initialise disk store at %s: %v", config.DISK_STORE_DIR, err)
	}
	log.Printf("Using disk store at %s, %d MB free", config.DISK_STORE_DIR, store.FreeSpace()/1024/1024)
	return store
}

func main() {
	db.Init(config.MYSQL_DSN, config.SQLITE_FILE)
	models.Init()

	pipe := pipeline.New(newObjectStore())
	handlers.Init(pipe)

	if config.CLEANUP_INTERVAL_MINUTES > 0 {
		go pipe.StartSweep(time.Duration(config.CLEANUP_INTERVAL_MINUTES) * time.Minute)
	}

	if !config.DEBUG_MODE {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	_ = router.SetTrustedProxies([]string{})
	if config.DEBUG_MODE {
		router.Use(utils.ErrorLogMiddleware)
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "PUT", "POST", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           30 * 24 * time.Hour,
	}))

	cookieStore := gormsessions.NewStore(db.Instance, true, []byte(config.SESSION_KEY))
	cookieStore.Options(sessions.Options{MaxAge: sessionExpirationTime})
	router.Use(sessions.Sessions(sessionCookieName, cookieStore))
	if !config.DEBUG_MODE {
		router.Use(gzip.Gzip(gzip.DefaultCompression))
	}

	// Public, read-only routes
	router.POST("/api/login", handlers.UserLogin)
	router.GET("/api/me", handlers.UserStatus)
	router.GET("/api/assets/:id", handlers.AssetGet)
	router.POST("/api/assets/batch", handlers.AssetBatch)
	router.GET("/api/albums", handlers.AlbumList)
	router.GET("/api/albums/:id", handlers.AlbumGet)
	router.GET("/api/albums/slug/:slug", handlers.AlbumGetBySlug)
	router.GET("/api/albums/:id/images", handlers.AlbumImages)
	router.GET("/api/posts", handlers.PostList)
	router.GET("/api/posts/:id", handlers.PostGet)
	router.GET("/api/posts/slug/:slug", handlers.PostGetBySlug)

	// Everything below requires a logged-in user
	authRouter := &auth.Router{Base: router}
	authRouter.POST("/api/logout", handlers.UserLogout)
	// Asset handlers
	authRouter.GET("/api/assets", handlers.AssetList)
	authRouter.POST("/api/assets/upload", handlers.AssetUpload)
	authRouter.POST("/api/assets/presign", handlers.AssetPresign)
	authRouter.POST("/api/assets/register", handlers.AssetRegister)
	authRouter.PUT("/api/assets/:id", handlers.AssetUpdate)
	authRouter.POST("/api/assets/:id/rotate", handlers.AssetRotate)
	authRouter.PUT("/api/assets/:id/replace", handlers.AssetReplace)
	authRouter.DELETE("/api/assets/:id", handlers.AssetDelete)
	authRouter.POST("/api/reconcile", handlers.Reconcile)
	// Album handlers
	authRouter.POST("/api/albums", handlers.AlbumCreate)
	authRouter.PUT("/api/albums/:id", handlers.AlbumUpdate)
	authRouter.DELETE("/api/albums/:id", handlers.AlbumDelete)
	authRouter.POST("/api/albums/:id/images", handlers.AlbumAddAsset)
	authRouter.PUT("/api/albums/:id/images", handlers.AlbumReorder)
	authRouter.DELETE("/api/albums/:id/images/:assetID", handlers.AlbumRemoveAsset)
	// Post handlers
	authRouter.POST("/api/posts", handlers.PostCreate)
	authRouter.PUT("/api/posts/:id", handlers.PostUpdate)
	authRouter.DELETE("/api/posts/:id", handlers.PostDelete)

	bootstrapAdmin()

	var err error
	if config.TLS_DOMAINS != "" {
		err = autotls.Run(router, strings.Split(config.TLS_DOMAINS, ",")...)
	} else {
		err = router.Run(config.BIND_ADDRESS)
	}
	log.Fatalf("Server stopped: %v", err)
}

// bootstrapAdmin creates the initial user on an empty database so uploads
// are possible at all.
func bootstrapAdmin() {
	if config.ADMIN_EMAIL == "" || config.ADMIN_PASSWORD == "" {
		return
	}
	var count int64
	db.Instance.Model(&models.User{}).Count(&count)
	if count > 0 {
		return
	}
	user, err := models.UserCreate("admin", config.ADMIN_EMAIL, config.ADMIN_PASSWORD)
	if err != nil {
		log.Printf("Cannot create initial user: %v", err)
		return
	}
	log.Printf("Created initial user %s (id %d)", user.Email, user.ID)
}
