package service

import (
	"fmt"

	"github.com/rl1809/packdemo/internal/core/domain"
	"github.com/rl1809/packdemo/internal/port"
)

type DisplayService struct {
	printer port.LinePrinter
	metrics port.MetricsRecorder
}

func NewDisplayService(printer port.LinePrinter, metrics port.MetricsRecorder) *DisplayService {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &DisplayService{printer: printer, metrics: metrics}
}

func (s *DisplayService) ShowUser(user domain.User) error {
	if err := s.printer.PrintLine(user.String()); err != nil {
		return fmt.Errorf("show user: %w", err)
	}
	s.metrics.RecordShown("user")
	return nil
}

func (s *DisplayService) ShowVehicle(vehicle domain.Vehicle) error {
	if err := s.printer.PrintLine(vehicle.String()); err != nil {
		return fmt.Errorf("show vehicle: %w", err)
	}
	s.metrics.RecordShown("vehicle")
	return nil
}
