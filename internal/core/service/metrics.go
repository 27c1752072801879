package service

import "time"

type noopMetrics struct{}

func (noopMetrics) RecordShown(string)                                {}
func (noopMetrics) StepFinished(string, string, error, time.Duration) {}
func (noopMetrics) ReleaseFinished(string)                            {}
