// Package app wires the router, middleware and handlers together
package app

import (
	"fmt"
	"time"

	"bitwise74/vehicle-api/app/root"
	"bitwise74/vehicle-api/app/spec"
	"bitwise74/vehicle-api/app/tag"
	"bitwise74/vehicle-api/app/user"
	"bitwise74/vehicle-api/app/vehicle"
	"bitwise74/vehicle-api/db"
	"bitwise74/vehicle-api/internal"
	"bitwise74/vehicle-api/internal/service"
	"bitwise74/vehicle-api/internal/storage"
	"bitwise74/vehicle-api/pkg/middleware"
	"bitwise74/vehicle-api/pkg/security"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

var store = persist.NewMemoryStore(time.Minute)

func NewRouter() (*gin.Engine, error) {
	makeLogger()

	database, err := db.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}

	var blobs storage.Store

	switch viper.GetString("storage.type") {
	case "s3":
		blobs, err = storage.NewS3()
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 storage, %w", err)
		}
	default:
		blobs, err = storage.NewLocal(viper.GetString("storage.local_path"))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize local storage, %w", err)
		}
	}

	argon := security.New()

	d := &internal.Deps{
		DB:    database,
		Argon: argon,
		Store: blobs,
		Users: &service.Users{
			DB:       database,
			Argon:    argon,
			TokenTTL: time.Duration(viper.GetInt("auth.token_ttl_hours")) * time.Hour,
		},
		Tags:     &service.Tags{DB: database},
		Specs:    &service.Specifications{DB: database},
		Vehicles: &service.Vehicles{DB: database, Store: blobs},
	}

	router := gin.New()

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     viper.GetStringSlice("host.cors_origins"),
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString("userID"); v != "" {
					fields = append(fields, zap.String("userID", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true
	router.MaxMultipartMemory = 5 << 20

	auth := middleware.NewAuthMiddleware(d.Users)
	maxUploadSize := viper.GetInt64("upload.max_size")

	// GET /health-check/ 		-> Used to check if the server is alive
	router.GET("/health-check/", root.HealthCheck)

	// GET /schema/ 		-> OpenAPI3 description of all routes
	router.GET("/schema/", cacheFor(300), root.Schema)

	// Locally stored images are served directly, S3 images go through
	// their public URL instead
	if local, ok := blobs.(*storage.Local); ok {
		router.Static("/media", local.Root)
	}

	u := router.Group("/user", middleware.BodySizeLimiter(1<<20))
	{
		// POST /user/create/ 		-> Registers a new user
		u.POST("/create/", func(c *gin.Context) { user.UserCreate(c, d) })

		// POST /user/token/ 		-> Issues a bearer token, replacing the previous one
		u.POST("/token/", func(c *gin.Context) { user.UserToken(c, d) })

		me := u.Group("/me", auth)
		{
			// GET /user/me/	-> Returns the acting user's profile
			me.GET("/", func(c *gin.Context) { user.UserMe(c, d) })

			// PUT /user/me/	-> Replaces the acting user's profile
			me.PUT("/", func(c *gin.Context) { user.UserMeUpdate(c, d) })

			// PATCH /user/me/	-> Updates parts of the acting user's profile
			me.PATCH("/", func(c *gin.Context) { user.UserMePatch(c, d) })
		}
	}

	v := router.Group("/vehicle", auth, middleware.BodySizeLimiter(1<<20))
	{
		t := v.Group("/tags")
		{
			// GET /vehicle/tags/ 		-> Lists the acting user's tags
			t.GET("/", func(c *gin.Context) { tag.TagList(c, d) })

			// POST /vehicle/tags/ 		-> Creates a tag
			t.POST("/", func(c *gin.Context) { tag.TagCreate(c, d) })

			// GET /vehicle/tags/:id/ 	-> Returns a single tag
			t.GET("/:id/", func(c *gin.Context) { tag.TagRetrieve(c, d) })

			// PUT /vehicle/tags/:id/ 	-> Renames a tag
			t.PUT("/:id/", func(c *gin.Context) { tag.TagUpdate(c, d) })

			// PATCH /vehicle/tags/:id/ 	-> Renames a tag if a name is present
			t.PATCH("/:id/", func(c *gin.Context) { tag.TagPartialUpdate(c, d) })

			// DELETE /vehicle/tags/:id/ 	-> Deletes a tag and its vehicle links
			t.DELETE("/:id/", func(c *gin.Context) { tag.TagDelete(c, d) })
		}

		sp := v.Group("/specifications")
		{
			// Same surface as tags
			sp.GET("/", func(c *gin.Context) { spec.SpecList(c, d) })
			sp.POST("/", func(c *gin.Context) { spec.SpecCreate(c, d) })
			sp.GET("/:id/", func(c *gin.Context) { spec.SpecRetrieve(c, d) })
			sp.PUT("/:id/", func(c *gin.Context) { spec.SpecUpdate(c, d) })
			sp.PATCH("/:id/", func(c *gin.Context) { spec.SpecPartialUpdate(c, d) })
			sp.DELETE("/:id/", func(c *gin.Context) { spec.SpecDelete(c, d) })
		}

		ve := v.Group("/vehicles")
		{
			// GET /vehicle/vehicles/ 	-> Lists the acting user's vehicles
			ve.GET("/", func(c *gin.Context) { vehicle.VehicleList(c, d) })

			// POST /vehicle/vehicles/ 	-> Creates a vehicle, resolving tags/specs by name
			ve.POST("/", func(c *gin.Context) { vehicle.VehicleCreate(c, d) })

			// GET /vehicle/vehicles/:id/ 	-> Returns a single vehicle with its links
			ve.GET("/:id/", func(c *gin.Context) { vehicle.VehicleRetrieve(c, d) })

			// PUT /vehicle/vehicles/:id/ 	-> Replaces a vehicle
			ve.PUT("/:id/", func(c *gin.Context) { vehicle.VehicleUpdate(c, d) })

			// PATCH /vehicle/vehicles/:id/ -> Merge-patches a vehicle
			ve.PATCH("/:id/", func(c *gin.Context) { vehicle.VehiclePartialUpdate(c, d) })

			// DELETE /vehicle/vehicles/:id/ -> Deletes a vehicle, keeping tags/specs
			ve.DELETE("/:id/", func(c *gin.Context) { vehicle.VehicleDelete(c, d) })

			// POST /vehicle/vehicles/:id/upload_image/ -> Replaces the vehicle image
			ve.POST("/:id/upload_image/", middleware.BodySizeLimiter(maxUploadSize+1<<20), func(c *gin.Context) { vehicle.VehicleUploadImage(c, d) })
		}
	}

	// Expired tokens fail auth anyway, this just keeps the table small
	service.StartTokenCleanup(database)

	return router, nil
}

func makeLogger() {
	cfg := zap.NewDevelopmentConfig()

	var level zapcore.Level
	if err := level.Set(viper.GetString("app.log_level")); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(level)
	}

	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	cfg.DisableStacktrace = true

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}

func cacheFor(sec int) gin.HandlerFunc {
	return cache.CacheByRequestURI(store, time.Second*time.Duration(sec))
}
