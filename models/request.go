// models/request.go
package models

import "time"

const BorrowRequestsCollection = "borrow_requests"

type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

// BorrowRequestEntry is a queued loan application. While pending, Quantity
// is virtually reserved against the item's available pool; approval converts
// it into borrow history entries, rejection simply releases the reservation.
type BorrowRequestEntry struct {
	ID                 string        `json:"id"`
	ItemID             string        `json:"itemId"`
	ItemDepartmentID   string        `json:"itemDepartmentId"`
	Borrower           PersonRef     `json:"borrower"`
	Applicant          PersonRef     `json:"applicant"`
	Quantity           int           `json:"quantity"`
	ExpectedReturnDate time.Time     `json:"expectedReturnDate"`
	Photo              string        `json:"photo,omitempty"`
	Status             RequestStatus `json:"status"`
	CreatedAt          time.Time     `json:"createdAt"`
	ReviewedAt         *time.Time    `json:"reviewedAt,omitempty"`
	Reviewer           *PersonRef    `json:"reviewer,omitempty"`
	Remark             string        `json:"remark,omitempty"`

	// Display fields refreshed from the item on listing.
	ItemName  string `json:"itemName,omitempty"`
	ItemImage string `json:"itemImage,omitempty"`
}
