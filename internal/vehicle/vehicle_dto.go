package vehicle

type CreateVehicleRequest struct {
	Plate string `json:"plate" binding:"required"`
	Label string `json:"label" binding:"required"`
}

type UpdateVehicleRequest struct {
	Plate  string `json:"plate" binding:"required"`
	Label  string `json:"label" binding:"required"`
	Active *bool  `json:"active" binding:"required"`
}

type CreateBookingRequest struct {
	VehicleID     string  `json:"vehicle_id" binding:"required,uuid"`
	ProjectID     *string `json:"project_id" binding:"omitempty,uuid"`
	StartsAt      string  `json:"starts_at" binding:"required"`
	EndsAt        string  `json:"ends_at" binding:"required"`
	OdometerStart *int    `json:"odometer_start"`
	Notes         *string `json:"notes"`
}

type CloseBookingRequest struct {
	OdometerEnd int `json:"odometer_end" binding:"required"`
}

type VehicleResponse struct {
	ID     string `json:"id"`
	Plate  string `json:"plate"`
	Label  string `json:"label"`
	Active bool   `json:"active"`
}

type BookingResponse struct {
	ID            string  `json:"id"`
	VehicleID     string  `json:"vehicle_id"`
	EmployeeID    string  `json:"employee_id"`
	ProjectID     *string `json:"project_id,omitempty"`
	StartsAt      string  `json:"starts_at"`
	EndsAt        string  `json:"ends_at"`
	OdometerStart *int    `json:"odometer_start,omitempty"`
	OdometerEnd   *int    `json:"odometer_end,omitempty"`
	Notes         *string `json:"notes,omitempty"`
}
