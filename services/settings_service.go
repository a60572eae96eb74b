package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"matchup-game-system/models"
)

// SettingsProvider is the read side consumed by the announcer worker.
type SettingsProvider interface {
	Get(ctx context.Context) (models.AppSetting, error)
}

// SettingsService holds the single-row app configuration: load-or-default on
// read, persist on change. Always injected, never ambient.
type SettingsService struct {
	DB *gorm.DB
}

func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{DB: db}
}

func DefaultSettings() models.AppSetting {
	return models.AppSetting{
		ID:                         1,
		EnableNotifications:        true,
		ShowAnalytics:              true,
		WinnerAnnouncementInterval: models.IntervalHourly,
	}
}

// ValidInterval reports whether s is a recognized announcement interval.
func ValidInterval(s string) bool {
	switch s {
	case models.IntervalHourly, models.IntervalEvery2Hours, models.IntervalDisabled:
		return true
	}
	return false
}

func (s *SettingsService) Get(ctx context.Context) (models.AppSetting, error) {
	var settings models.AppSetting
	err := s.DB.WithContext(ctx).First(&settings, 1).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return DefaultSettings(), nil
	}
	if err != nil {
		return DefaultSettings(), fmt.Errorf("failed to load settings: %w", err)
	}
	if !ValidInterval(settings.WinnerAnnouncementInterval) {
		settings.WinnerAnnouncementInterval = models.IntervalHourly
	}
	return settings, nil
}

func (s *SettingsService) Save(ctx context.Context, settings models.AppSetting) error {
	if !ValidInterval(settings.WinnerAnnouncementInterval) {
		return fmt.Errorf("unrecognized winner announcement interval %q", settings.WinnerAnnouncementInterval)
	}
	settings.ID = 1
	if err := s.DB.WithContext(ctx).Save(&settings).Error; err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// GetSettings serves the current configuration.
func (s *SettingsService) GetSettings(c *fiber.Ctx) error {
	settings, err := s.Get(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load settings",
			"cause": err.Error(),
		})
	}
	return c.JSON(settings)
}

// SaveSettings persists a configuration change.
func (s *SettingsService) SaveSettings(c *fiber.Ctx) error {
	var settings models.AppSetting
	if err := c.BodyParser(&settings); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
	}
	if err := s.Save(c.Context(), settings); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "failed to save settings", "cause": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "settings saved"})
}
