// Package queue defines message payloads exchanged over the message broker.
package queue

// ReservationConfirmedEvent is published when a reservation is admitted.
// It carries enough context for downstream consumers to log, notify, or
// feed analytics without querying the primary database.
type ReservationConfirmedEvent struct {
    ReservationID uint64  `json:"reservation_id"`
    UserID        uint64  `json:"user_id"`
    ResourceID    uint64  `json:"resource_id"`
    ResourceTitle string  `json:"resource_title"`
    PackageID     *uint64 `json:"package_id"`
    PackageName   string  `json:"package_name"`
    FromDate      string  `json:"from_date"` // inclusive, YYYY-MM-DD
    ToDate        string  `json:"to_date"`   // exclusive, YYYY-MM-DD
    ConfirmedAt   string  `json:"confirmed_at"`
}
