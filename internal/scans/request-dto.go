package scans

import "time"

// SubmitScanRequest is a single online scan submission from a gate device.
// Payload is the raw credential capture; Operation distinguishes admission
// from NFC wallet operations at the boundary.
type SubmitScanRequest struct {
	Payload    string   `json:"payload" binding:"required"`
	ScannerID  string   `json:"scanner_id" binding:"required,max=64"`
	Method     string   `json:"method" binding:"omitempty,oneof=QR NFC MANUAL"`
	Operation  string   `json:"operation" binding:"omitempty,oneof=access payment"`
	Latitude   *float64 `json:"latitude" binding:"omitempty,min=-90,max=90"`
	Longitude  *float64 `json:"longitude" binding:"omitempty,min=-180,max=180"`
	LocalID    string   `json:"local_id" binding:"omitempty,max=64"`
	DeviceInfo string   `json:"device_info" binding:"omitempty,max=255"`
}

// EnqueueScanRequest captures a scan for later synchronization.
type EnqueueScanRequest struct {
	LocalID    string    `json:"local_id" binding:"required,max=64"`
	Payload    string    `json:"payload" binding:"required"`
	ScannerID  string    `json:"scanner_id" binding:"required,max=64"`
	Method     string    `json:"method" binding:"omitempty,oneof=QR NFC MANUAL"`
	Latitude   *float64  `json:"latitude" binding:"omitempty,min=-90,max=90"`
	Longitude  *float64  `json:"longitude" binding:"omitempty,min=-180,max=180"`
	DeviceInfo string    `json:"device_info" binding:"omitempty,max=255"`
	CapturedAt time.Time `json:"captured_at" binding:"required"`
}

// BatchScanItem is one queued scan inside a device-submitted batch.
type BatchScanItem struct {
	LocalID    string    `json:"local_id" validate:"required,max=64"`
	TicketCode string    `json:"ticket_code" validate:"required,max=128"`
	ScannerID  string    `json:"scanner_id" validate:"required,max=64"`
	Method     string    `json:"method" validate:"omitempty,oneof=QR NFC MANUAL"`
	Latitude   *float64  `json:"latitude" validate:"omitempty,min=-90,max=90"`
	Longitude  *float64  `json:"longitude" validate:"omitempty,min=-180,max=180"`
	DeviceInfo string    `json:"device_info" validate:"omitempty,max=255"`
	CapturedAt time.Time `json:"captured_at" validate:"required"`
}

// BatchSyncRequest is a device draining its offline queue in one call.
type BatchSyncRequest struct {
	Scans []BatchScanItem `json:"scans" validate:"required,min=1,max=500,dive"`
}
