package fixtures

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"time"

	"github.com/thedeck/mailroom-backend/internal/models"
)

// ClientBuilder creates test Client instances with fluent API
type ClientBuilder struct {
	client models.Client
}

// NewClientBuilder creates a new ClientBuilder with sensible defaults
func NewClientBuilder() *ClientBuilder {
	now := time.Now()
	return &ClientBuilder{
		client: models.Client{
			ID:           1,
			Name:         "Acme Corp",
			PrimaryEmail: "mail@acme.example",
			CreatedAt:    now,
			UpdatedAt:    now,
		},
	}
}

// WithID sets the client ID
func (b *ClientBuilder) WithID(id uint) *ClientBuilder {
	b.client.ID = id
	return b
}

// WithName sets the client name
func (b *ClientBuilder) WithName(name string) *ClientBuilder {
	b.client.Name = name
	return b
}

// WithPrimaryEmail sets the primary email
func (b *ClientBuilder) WithPrimaryEmail(email string) *ClientBuilder {
	b.client.PrimaryEmail = email
	return b
}

// WithSecondaryEmails sets the secondary emails
func (b *ClientBuilder) WithSecondaryEmails(emails ...string) *ClientBuilder {
	b.client.SecondaryEmails = emails
	return b
}

// Build returns the built client
func (b *ClientBuilder) Build() models.Client {
	return b.client
}

// BuildPtr returns a pointer to the built client
func (b *ClientBuilder) BuildPtr() *models.Client {
	c := b.client
	return &c
}

// MailRecordBuilder creates test MailRecord instances with fluent API
type MailRecordBuilder struct {
	record models.MailRecord
}

// NewMailRecordBuilder creates a new MailRecordBuilder with sensible defaults
func NewMailRecordBuilder() *MailRecordBuilder {
	return &MailRecordBuilder{
		record: models.MailRecord{
			ID:         1,
			ClientID:   1,
			ImageURLs:  []string{"ab/abc123.jpg"},
			Status:     models.MailStatusPending,
			Urgency:    1,
			ReceivedAt: time.Now(),
		},
	}
}

// WithID sets the record ID
func (b *MailRecordBuilder) WithID(id uint) *MailRecordBuilder {
	b.record.ID = id
	return b
}

// WithClientID sets the client ID
func (b *MailRecordBuilder) WithClientID(id uint) *MailRecordBuilder {
	b.record.ClientID = id
	return b
}

// WithStatus sets the record status
func (b *MailRecordBuilder) WithStatus(status string) *MailRecordBuilder {
	b.record.Status = status
	return b
}

// WithNotes sets the record notes
func (b *MailRecordBuilder) WithNotes(notes string) *MailRecordBuilder {
	b.record.Notes = notes
	return b
}

// Build returns the built record
func (b *MailRecordBuilder) Build() models.MailRecord {
	return b.record
}

// BuildPtr returns a pointer to the built record
func (b *MailRecordBuilder) BuildPtr() *models.MailRecord {
	r := b.record
	return &r
}

// PNGImage generates an in-memory PNG of the given size for upload tests
func PNGImage(width, height int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}
