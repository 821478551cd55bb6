package dtos

// Staff is a back-office account.
type Staff struct {
	ID       int64  `json:"Id,omitempty"`
	Name     string `json:"Name"`
	Email    string `json:"Email"`
	Role     string `json:"Role"`
	Password string `json:"Password,omitempty"`
}

// StockImportRow is one line of a stock delivery.
type StockImportRow struct {
	ProductID   int64  `json:"ProductId" binding:"required,min=1"`
	Quantity    int    `json:"Quantity" binding:"required,min=1"`
	BatchNumber string `json:"BatchNumber"`
	ExpiryDate  string `json:"ExpiryDate" binding:"omitempty,datetime=2006-01-02"`
}

// StockImport is a batch of stock rows submitted by staff.
type StockImport struct {
	Rows []StockImportRow `json:"Rows" binding:"required,min=1,max=5000,dive"`
}

// StockImportResult is the backend's summary of an import.
type StockImportResult struct {
	Imported int      `json:"Imported"`
	Failed   int      `json:"Failed"`
	Errors   []string `json:"Errors,omitempty"`
}

const (
	ApplicationPending  = "pending"
	ApplicationApproved = "approved"
	ApplicationRejected = "rejected"
)

// JobApplication is a candidate's application for a staff position.
type JobApplication struct {
	ID          int64  `json:"Id,omitempty"`
	Name        string `json:"Name"`
	Email       string `json:"Email"`
	Phone       string `json:"Phone"`
	Position    string `json:"Position"`
	CoverLetter string `json:"CoverLetter,omitempty"`
	Status      string `json:"Status,omitempty"`
}

// DeliveryStaff is a registered delivery driver.
type DeliveryStaff struct {
	ID            int64  `json:"Id,omitempty"`
	Name          string `json:"Name"`
	Email         string `json:"Email"`
	Phone         string `json:"Phone"`
	VehicleType   string `json:"VehicleType"`
	LicenceNumber string `json:"LicenceNumber"`
	LicenceImage  string `json:"LicenceImage,omitempty"`
}

// FulfilmentStaff is a warehouse picker/packer.
type FulfilmentStaff struct {
	ID        int64  `json:"Id,omitempty"`
	Name      string `json:"Name"`
	Email     string `json:"Email"`
	Warehouse string `json:"Warehouse"`
}
