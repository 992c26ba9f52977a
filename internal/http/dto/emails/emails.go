// Package emails holds the bodies of the email status and sender endpoints.
package emails

import "encoding/json"

// EmailStatusResponse passes provider records through untouched.
type EmailStatusResponse struct {
	Emails []json.RawMessage `json:"emails"`
}

type MilestoneRequest struct {
	To          string `json:"to"`
	FirstName   string `json:"firstName"`
	Subject     string `json:"subject"`
	Message     string `json:"message"`
	PDFBase64   string `json:"pdfBase64"`
	PDFFilename string `json:"pdfFilename"`
	UserID      string `json:"userId"`
	SentBy      string `json:"sentBy"`
}

type ProfileNotificationRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Company   string `json:"company"`
	Phone     string `json:"phone"`
	AppName   string `json:"appName"`
}

type SendData struct {
	ID string `json:"id"`
}

type SendResponse struct {
	Success bool     `json:"success"`
	Data    SendData `json:"data"`
}
