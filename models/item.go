// models/item.go
package models

import "time"

const ItemsCollection = "items"

// BorrowStatus is the lifecycle state of a single unit-loan record.
// OverdueUnreturned is a display status derived from the expected return
// date; the engine never writes it, but accepts it as a return source state.
type BorrowStatus string

const (
	StatusBorrowed     BorrowStatus = "borrowed"
	StatusOverdue      BorrowStatus = "overdue_unreturned"
	StatusReturned     BorrowStatus = "returned"
	StatusReturnedLate BorrowStatus = "returned_late"
)

// Open reports whether the unit is still out on loan.
func (s BorrowStatus) Open() bool {
	return s == StatusBorrowed || s == StatusOverdue
}

// PersonRef identifies a borrower / applicant / operator. ID is empty for
// people recorded by name only (e.g. walk-in borrowers entered by an admin).
type PersonRef struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}

// BorrowHistoryEntry is one unit on loan: quantity N borrows produce N
// entries, each returned independently.
type BorrowHistoryEntry struct {
	ID                 string       `json:"id"`
	ItemID             string       `json:"itemId"`
	Borrower           PersonRef    `json:"borrower"`
	Operator           *PersonRef   `json:"operator,omitempty"`
	BorrowDate         time.Time    `json:"borrowDate"`
	ExpectedReturnDate time.Time    `json:"expectedReturnDate"`
	ReturnDate         *time.Time   `json:"returnDate,omitempty"`
	Status             BorrowStatus `json:"status"`
	Photo              string       `json:"photo,omitempty"`
	ReturnPhoto        string       `json:"returnPhoto,omitempty"`
	ForcedReturnBy     string       `json:"forcedReturnBy,omitempty"`
}

// EquipmentItem is the stored inventory record. AvailableQuantity is the raw
// figure: total minus open history entries. PendingApprovalQuantity is
// derived on read from pending borrow requests and never persisted.
type EquipmentItem struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	CategoryID    string `json:"categoryId"`
	DepartmentID  string `json:"departmentId"`
	TotalQuantity int    `json:"totalQuantity"`
	// 原始可用数；待审批的预占不落库
	AvailableQuantity int   `json:"availableQuantity"`
	RequiresApproval  *bool `json:"requiresApproval,omitempty"`

	Image     string   `json:"image,omitempty"`
	ImageFull string   `json:"imageFull,omitempty"`
	Photos    []string `json:"photos,omitempty"`

	BorrowHistory []BorrowHistoryEntry `json:"borrowHistory"`

	// Derived, surfaced on reads only.
	PendingApprovalQuantity int `json:"pendingApprovalQuantity,omitempty"`
}
