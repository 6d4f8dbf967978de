package service

// Helper functions
func strPtr(s string) *string { return &s }

func float64Ptr(v float64) *float64 { return &v }

func intPtr(v int) *int { return &v }
