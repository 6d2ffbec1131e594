package types

import (
	"time"
)

type InsuranceProvider struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	InsuranceName string `gorm:"column:insurance_name;not null" json:"insurance_name"`
	ContactNo     string `gorm:"column:contact_no" json:"contact_no"`
	Email         string `gorm:"column:email" json:"email"`
}

func (InsuranceProvider) TableName() string { return "insurance_provider" }

type Client struct {
	ID          uint               `gorm:"primaryKey" json:"id"`
	FirstName   string             `gorm:"column:first_name;not null" json:"first_name"`
	LastName    string             `gorm:"column:last_name;not null" json:"last_name"`
	Email       string             `gorm:"column:email;not null" json:"email"`
	IDNumber    string             `gorm:"column:id_number" json:"id_number"`
	PhoneNumber string             `gorm:"column:phone_number" json:"phone_number"`
	PolicyNo    string             `gorm:"column:policy_no" json:"policy_no"`
	Location    string             `gorm:"column:location" json:"location"`
	InsurerID   *uint              `gorm:"index" json:"insurer_id,omitempty"`
	Insurer     *InsuranceProvider `gorm:"constraint:OnDelete:SET NULL;foreignKey:InsurerID;references:ID" json:"insurer,omitempty"`
	CreatedAt   time.Time          `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time          `gorm:"not null" json:"updated_at"`
}

func (Client) TableName() string { return "client" }

// ClientIncident is the where/when of the insured event, one per client.
type ClientIncident struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ClientID       uint      `gorm:"not null;uniqueIndex" json:"client_id"`
	Client         *Client   `gorm:"constraint:OnDelete:CASCADE;foreignKey:ClientID;references:ID" json:"client,omitempty"`
	DateOfIncident time.Time `gorm:"column:date_of_incident" json:"date_of_incident"`
	StreetAddress  string    `gorm:"column:street_address" json:"street_address"`
	City           string    `gorm:"column:city" json:"city"`
	Province       string    `gorm:"column:province" json:"province"`
	PostalCode     string    `gorm:"column:postal_code" json:"postal_code"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
}

func (ClientIncident) TableName() string { return "client_incident" }

type Business struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	ClientID      uint    `gorm:"not null;uniqueIndex" json:"client_id"`
	Client        *Client `gorm:"constraint:OnDelete:CASCADE;foreignKey:ClientID;references:ID" json:"client,omitempty"`
	BusinessName  string  `gorm:"column:business_name;not null" json:"business_name"`
	BusinessEmail string  `gorm:"column:business_email" json:"business_email"`
	RegNumber     string  `gorm:"column:reg_number" json:"reg_number"`
	VatNumber     string  `gorm:"column:vat_number" json:"vat_number"`
	PhoneNo       string  `gorm:"column:phone_no" json:"phone_no"`
}

func (Business) TableName() string { return "business" }
