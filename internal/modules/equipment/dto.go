package equipment

import "time"

type CheckOutBody struct {
	CustodianID      int64     `json:"custodianId" binding:"required"`
	BookingID        *int64    `json:"bookingId"`
	ExpectedReturnAt time.Time `json:"expectedReturnAt" binding:"required"`
	Condition        string    `json:"condition"`
	Notes            string    `json:"notes"`
}

type CheckInBody struct {
	Condition         string `json:"condition" binding:"required"`
	Notes             string `json:"notes"`
	DamageReported    bool   `json:"damageReported"`
	DamageDescription string `json:"damageDescription"`
}
