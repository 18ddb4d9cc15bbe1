package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"studioops/internal/config"
	"studioops/internal/database"
	"studioops/internal/domain"
	"studioops/internal/modules/availability"
	"studioops/internal/modules/booking"
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
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	// Cleanup old data (in safe order to avoid foreign key errors)
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM equipment_assignments")
	db.Exec("DELETE FROM resource_assignments")
	db.Exec("DELETE FROM bookings")
	db.Exec("DELETE FROM equipment")
	db.Exec("DELETE FROM staff")
	db.Exec("DELETE FROM rooms")
	db.Exec("DELETE FROM studios")

	ctx := context.Background()

	studioRepo := repository.NewStudioRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	staffRepo := repository.NewStaffRepository(db)
	equipmentRepo := repository.NewEquipmentRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	resourceCatalog := repository.NewResourceCatalog(db)

	// ================== STUDIO ==================
	log.Println("Creating studio...")
	studio := domain.Studio{
		Name:    "Northlight Studio",
		Address: "14 Harbor Lane",
		City:    "Rotterdam",
	}
	if err := studioRepo.Create(ctx, &studio); err != nil {
		log.Fatal(err)
	}

	// ================== ROOMS ==================
	log.Println("Creating rooms...")
	rooms := []domain.Room{
		{StudioID: studio.ID, Name: "Daylight Hall", RoomType: domain.RoomFashion, AreaSqm: 80, Capacity: 12, IsActive: true},
		{StudioID: studio.ID, Name: "Portrait Suite", RoomType: domain.RoomPortrait, AreaSqm: 45, Capacity: 6, IsActive: true},
		{StudioID: studio.ID, Name: "Cyclorama", RoomType: domain.RoomCommercial, AreaSqm: 110, Capacity: 15, IsActive: true},
	}
	for i := range rooms {
		if err := roomRepo.Create(ctx, &rooms[i]); err != nil {
			log.Fatal(err)
		}
	}

	// ================== STAFF ==================
	log.Println("Creating staff...")
	staff := []domain.Staff{
		{StudioID: studio.ID, Name: "Mara Lindqvist", Role: domain.RolePhotographer, Email: "mara@northlight.example", IsActive: true},
		{StudioID: studio.ID, Name: "Jonas Vermeer", Role: domain.RolePhotographer, Email: "jonas@northlight.example", IsActive: true},
		{StudioID: studio.ID, Name: "Pia Halvorsen", Role: domain.RoleAssistant, IsActive: true},
		{StudioID: studio.ID, Name: "Elif Demir", Role: domain.RoleStylist, IsActive: true},
	}
	for i := range staff {
		if err := staffRepo.Create(ctx, &staff[i]); err != nil {
			log.Fatal(err)
		}
	}

	// ================== EQUIPMENT ==================
	log.Println("Creating equipment...")
	equipment := []domain.Equipment{
		{StudioID: studio.ID, RoomID: rooms[0].ID, Name: "Profoto B10X kit", Category: "lighting", Brand: "Profoto", Model: "B10X", SerialNumber: "PF-2201", Status: domain.EquipmentAvailable},
		{StudioID: studio.ID, RoomID: rooms[0].ID, Name: "Canon R5 body", Category: "camera", Brand: "Canon", Model: "EOS R5", SerialNumber: "CN-8842", Status: domain.EquipmentAvailable},
		{StudioID: studio.ID, RoomID: rooms[1].ID, Name: "85mm f/1.2 prime", Category: "lens", Brand: "Canon", Model: "RF 85mm", SerialNumber: "CN-1190", Status: domain.EquipmentAvailable},
		{StudioID: studio.ID, RoomID: rooms[2].ID, Name: "Aputure 600d", Category: "lighting", Brand: "Aputure", Model: "LS 600d", SerialNumber: "AP-0315", Status: domain.EquipmentMaintenance},
	}
	for i := range equipment {
		if err := equipmentRepo.Create(ctx, &equipment[i]); err != nil {
			log.Fatal(err)
		}
	}

	// ================== BOOKINGS ==================
	// Demo bookings go through the real engine so assignments, buffers and
	// conflict checks are exercised, not bypassed.
	log.Println("Creating demo bookings...")

	availabilityService := availability.NewService(assignmentRepo, equipmentRepo, resourceCatalog, cfg.EquipmentCustodyHorizon)
	expander := recurrence.NewExpander(cfg.Scheduling.MaxOccurrences, cfg.Scheduling.Horizon())
	bookingService := booking.NewService(
		bookingRepo, assignmentRepo, availabilityService, expander,
		lock.NewKeyedMutex(), notification.NewLogNotifier(),
	)

	nextMonday := nextWeekday(time.Now(), time.Monday)

	oneOff := booking.SubmitRequest{
		StudioID:     studio.ID,
		CreatedBy:    1,
		Window:       window(nextMonday, 10, 12),
		BufferBefore: 15 * time.Minute,
		BufferAfter:  30 * time.Minute,
		StaffIDs:     []int64{staff[0].ID, staff[2].ID},
		StaffRoles: map[int64]string{
			staff[0].ID: string(domain.RolePhotographer),
			staff[2].ID: string(domain.RoleAssistant),
		},
		EquipmentIDs: []int64{equipment[0].ID},
		RoomIDs:      []int64{rooms[0].ID},
		Notes:        "Editorial shoot, demo data",
	}
	result, err := bookingService.Submit(ctx, oneOff)
	if err != nil {
		log.Fatal("demo booking failed:", err)
	}
	log.Printf("Booking %d created with %d assignments", result.Booking.ID, len(result.Assignments))

	seriesEnd := nextMonday.AddDate(0, 1, 0)
	weekly := booking.SubmitRequest{
		StudioID:  studio.ID,
		CreatedBy: 1,
		Window:    window(nextWeekday(time.Now(), time.Thursday), 14, 16),
		Recurrence: &domain.RecurrencePattern{
			Frequency: domain.FrequencyWeekly,
			Interval:  1,
			EndDate:   &seriesEnd,
		},
		StaffIDs:   []int64{staff[1].ID},
		StaffRoles: map[int64]string{staff[1].ID: string(domain.RolePhotographer)},
		RoomIDs:    []int64{rooms[1].ID},
		Notes:      "Weekly portrait block, demo data",
	}
	result, err = bookingService.Submit(ctx, weekly)
	if err != nil {
		log.Fatal("demo series failed:", err)
	}
	log.Printf("Recurring booking %d created, %d occurrences", result.Booking.ID, len(result.Occurrences))

	log.Println("Seed completed.")
	log.Println(fmt.Sprintf("Studio id=%d, rooms=%d, staff=%d, equipment=%d", studio.ID, len(rooms), len(staff), len(equipment)))
}

func nextWeekday(from time.Time, wd time.Weekday) time.Time {
	days := (int(wd) - int(from.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	day := from.AddDate(0, 0, days)
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.Local)
}

func window(day time.Time, fromHour, toHour int) domain.Interval {
	return domain.Interval{
		Start: day.Add(time.Duration(fromHour) * time.Hour),
		End:   day.Add(time.Duration(toHour) * time.Hour),
	}
}
