package models

import "time"

// AuditLog records an admin mutation for the action trail. Writes are
// best effort and never fail the request they describe.
type AuditLog struct {
	ID         string    `json:"id"`
	Action     string    `json:"action"`
	Entity     string    `json:"entity"`
	EntityID   string    `json:"entityId"`
	AdminID    string    `json:"adminId,omitempty"`
	IP         string    `json:"ip,omitempty"`
	DeviceType string    `json:"deviceType,omitempty"`
	OS         string    `json:"os,omitempty"`
	Browser    string    `json:"browser,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}
