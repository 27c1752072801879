package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/packdemo/internal/core/domain"
)

// Mock LinePrinter
type mockPrinter struct {
	lines []string
	err   error
}

func (m *mockPrinter) PrintLine(text string) error {
	if m.err != nil {
		return m.err
	}
	m.lines = append(m.lines, text)
	return nil
}

type countingMetrics struct {
	noopMetrics
	shown map[string]int
}

func (c *countingMetrics) RecordShown(kind string) {
	c.shown[kind]++
}

func TestDisplay_UserThenVehicle(t *testing.T) {
	printer := &mockPrinter{}
	metrics := &countingMetrics{shown: map[string]int{}}
	svc := NewDisplayService(printer, metrics)

	require.NoError(t, svc.ShowUser(domain.NewUser("Shanmukh", 21)))
	require.NoError(t, svc.ShowVehicle(domain.NewVehicle("Car", 2024)))

	assert.Equal(t, []string{"Shanmukh is 21 years old", "Car is 2024 years old"}, printer.lines)
	assert.Equal(t, map[string]int{"user": 1, "vehicle": 1}, metrics.shown)
}

func TestDisplay_SameRecordSameText(t *testing.T) {
	printer := &mockPrinter{}
	svc := NewDisplayService(printer, nil)

	v := domain.NewVehicle("Bike", 2000)
	require.NoError(t, svc.ShowVehicle(v))
	require.NoError(t, svc.ShowVehicle(v))

	require.Len(t, printer.lines, 2)
	assert.Equal(t, printer.lines[0], printer.lines[1])
	assert.Contains(t, printer.lines[0], "Bike")
	assert.Contains(t, printer.lines[0], "2000")
}

func TestDisplay_WriteFailurePropagates(t *testing.T) {
	broken := errors.New("broken pipe")
	svc := NewDisplayService(&mockPrinter{err: broken}, nil)

	err := svc.ShowUser(domain.NewUser("Shanmukh", 21))
	assert.ErrorIs(t, err, broken)

	err = svc.ShowVehicle(domain.NewVehicle("Car", 2024))
	assert.ErrorIs(t, err, broken)
}
