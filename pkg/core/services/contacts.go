package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/rseventos/shiftboard/pkg/core/model"
)

const whatsAppBaseURL = "https://wa.me/"

// AddContact stores a phone directory entry
func AddContact(ctx context.Context, store DocumentStore, logger *zap.Logger, session *Session, name, number string) (*model.Contact, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}
	name, number = strings.TrimSpace(name), strings.TrimSpace(number)
	if name == "" || number == "" {
		return nil, fmt.Errorf("enter a name and a number: %w", ErrMissingField)
	}

	doc, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}

	contact := model.Contact{ID: newID(), Name: name, Number: number}
	doc.Contacts = append(doc.Contacts, contact)
	if err := store.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to save contact: %w", err)
	}

	logger.Info("Added contact", zap.String("contact_id", contact.ID))
	return &contact, nil
}

func DeleteContact(ctx context.Context, store DocumentStore, logger *zap.Logger, session *Session, contactID string) error {
	if err := requireAdmin(session); err != nil {
		return err
	}
	doc, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load document: %w", err)
	}

	kept := make([]model.Contact, 0, len(doc.Contacts))
	for _, c := range doc.Contacts {
		if c.ID != contactID {
			kept = append(kept, c)
		}
	}
	if len(kept) == len(doc.Contacts) {
		return fmt.Errorf("contact %s: %w", contactID, ErrNotFound)
	}
	doc.Contacts = kept

	if err := store.Save(ctx, doc); err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}
	logger.Info("Deleted contact", zap.String("contact_id", contactID))
	return nil
}

// ListContacts returns the directory sorted by name
func ListContacts(ctx context.Context, store DocumentStore, session *Session) ([]model.Contact, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}
	doc, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}

	contacts := append([]model.Contact(nil), doc.Contacts...)
	sort.SliceStable(contacts, func(i, j int) bool {
		return strings.ToLower(contacts[i].Name) < strings.ToLower(contacts[j].Name)
	})
	return contacts, nil
}

// DialURL returns the WhatsApp link for a contact
func DialURL(ctx context.Context, store DocumentStore, session *Session, contactID, countryCode string) (string, error) {
	if err := requireSession(session); err != nil {
		return "", err
	}
	doc, err := store.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load document: %w", err)
	}

	for _, c := range doc.Contacts {
		if c.ID == contactID {
			return WhatsAppURL(c.Number, countryCode), nil
		}
	}
	return "", fmt.Errorf("contact %s: %w", contactID, ErrNotFound)
}

// WhatsAppURL keeps the digits of number and prefixes countryCode unless the
// number already starts with it
func WhatsAppURL(number, countryCode string) string {
	digits := onlyDigits(number)
	if countryCode != "" && !strings.HasPrefix(digits, countryCode) {
		digits = countryCode + digits
	}
	return whatsAppBaseURL + digits
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
