package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"studioops/internal/config"
	"studioops/internal/database"
	"studioops/internal/middleware"
	"studioops/internal/modules/availability"
	"studioops/internal/modules/booking"
	"studioops/internal/modules/catalog"
	"studioops/internal/modules/equipment"
	"studioops/internal/notification"
	"studioops/internal/pkg/lock"
	"studioops/internal/recurrence"
	"studioops/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal(err)
	}

	studioRepo := repository.NewStudioRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	staffRepo := repository.NewStaffRepository(db)
	equipmentRepo := repository.NewEquipmentRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	resourceCatalog := repository.NewResourceCatalog(db)

	// A single guard instance covers booking commits and equipment
	// custody; Redis extends it across processes.
	var guard lock.Guard = lock.NewKeyedMutex()
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		guard = lock.NewRedisGuard(client, 0)
		log.Println("Resource locking via Redis:", cfg.RedisAddr)
	}

	var notifier notification.Notifier = notification.NewLogNotifier()
	if len(cfg.KafkaBrokers) > 0 {
		kafkaNotifier := notification.NewKafkaNotifier(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer kafkaNotifier.Close()
		notifier = kafkaNotifier
		log.Println("Notifications via Kafka:", cfg.KafkaTopic)
	}

	expander := recurrence.NewExpander(cfg.Scheduling.MaxOccurrences, cfg.Scheduling.Horizon())

	availabilityService := availability.NewService(assignmentRepo, equipmentRepo, resourceCatalog, cfg.EquipmentCustodyHorizon)
	availabilityHandler := availability.NewHandler(availabilityService)

	bookingService := booking.NewService(bookingRepo, assignmentRepo, availabilityService, expander, guard, notifier)
	bookingHandler := booking.NewHandler(bookingService)

	equipmentService := equipment.NewService(equipmentRepo, guard, notifier)
	equipmentHandler := equipment.NewHandler(equipmentService)

	catalogService := catalog.NewService(studioRepo, roomRepo, equipmentRepo, staffRepo)
	catalogHandler := catalog.NewHandler(catalogService)

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		availabilityHandler.RegisterRoutes(v1)
		bookingHandler.RegisterRoutes(v1)
		equipmentHandler.RegisterRoutes(v1)
		catalogHandler.RegisterRoutes(v1)
	}

	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatal(err)
	}
}
