package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/mohamedm999/TruckFlow/internal/models"
	"github.com/mohamedm999/TruckFlow/internal/repository"
	"github.com/mohamedm999/TruckFlow/internal/service"
)

const (
	maintenanceScanSpec  = "0 0 6 * * *" // daily, 06:00
	maintenanceHorizon   = 7 * 24 * time.Hour
	maintenanceScanLimit = 100
)

// Scheduler runs the recurring fleet jobs. Today that is a single daily scan
// that warns admins about maintenance coming due within the next week.
type Scheduler struct {
	cron        *cron.Cron
	maintenance *repository.MaintenanceRepository
	trucks      *repository.TruckRepository
	trailers    *repository.TrailerRepository
	notifier    *service.NotificationService
	log         zerolog.Logger
}

func NewScheduler(
	maintenance *repository.MaintenanceRepository,
	trucks *repository.TruckRepository,
	trailers *repository.TrailerRepository,
	notifier *service.NotificationService,
	log zerolog.Logger,
) *Scheduler {
	return &Scheduler{
		cron:        cron.New(cron.WithSeconds()),
		maintenance: maintenance,
		trucks:      trucks,
		trailers:    trailers,
		notifier:    notifier,
		log:         log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(maintenanceScanSpec, s.scanMaintenanceDue); err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

// Stop halts scheduling and returns a context that is done once any running
// job has finished; callers decide how long they are willing to wait.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) scanMaintenanceDue() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	now := time.Now()
	due, err := s.maintenance.ListDueBetween(ctx, now, now.Add(maintenanceHorizon), maintenanceScanLimit)
	if err != nil {
		s.log.Error().Err(err).Msg("maintenance due scan failed")
		return
	}

	for _, record := range due {
		s.notifier.NotifyMaintenanceDue(ctx, record, s.vehicleRegistration(ctx, record))
	}

	s.log.Info().Int("due", len(due)).Msg("maintenance due scan finished")
}

func (s *Scheduler) vehicleRegistration(ctx context.Context, record models.MaintenanceRecord) string {
	switch record.VehicleType {
	case models.VehicleTypeTruck:
		if truck, err := s.trucks.GetByID(ctx, record.VehicleID); err == nil {
			return truck.RegistrationNumber
		}
	case models.VehicleTypeTrailer:
		if trailer, err := s.trailers.GetByID(ctx, record.VehicleID); err == nil {
			return trailer.RegistrationNumber
		}
	}
	return record.VehicleID
}
