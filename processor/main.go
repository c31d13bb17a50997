package main

import (
	"fmt"
	"log"
	"time"

	"cautela-app/config"
	"cautela-app/models"
	"cautela-app/repositories"

	"gopkg.in/gomail.v2"
	"gorm.io/gorm"
)

// Standalone daemon: mails custody targets whose checkouts have been
// sitting unsigned past the configured age. Runs apart from the API
// server; the core never depends on it.

func main() {
	config.LoadConfig()

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	fmt.Println("📬 Signature reminder processor started")

	for {
		processPendingSignatures(db)
		time.Sleep(1 * time.Hour)
	}
}

func processPendingSignatures(db *gorm.DB) {
	cutoff := time.Now().Add(-time.Duration(config.SignatureReminderAge) * time.Hour)

	pending, err := repositories.NewMovementRepository(db).PendingSignatures(cutoff)
	if err != nil {
		log.Println("❌ Failed to load pending signatures:", err)
		return
	}

	for _, movement := range pending {
		var person models.Person
		if err := db.First(&person, "id = ?", movement.CustodyTargetID).Error; err != nil {
			continue
		}
		if person.Email == "" {
			continue
		}

		if err := sendReminder(person, movement); err != nil {
			log.Println("❌ Failed to send reminder:", err)
			continue
		}
		fmt.Println("✉️  Reminder sent to", person.Email, "for movement", movement.ID)
	}
}

func sendReminder(person models.Person, movement models.MovementRecord) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", config.SMTPSender)
	msg.SetHeader("To", person.Email)
	msg.SetHeader("Subject", "Pending custody signature")
	msg.SetBody("text/plain", fmt.Sprintf(
		"You have %d x %s checked out since %s awaiting your signature.",
		movement.Quantity,
		movement.MaterialDescription,
		movement.Date.Format("2006-01-02"),
	))

	dialer := gomail.NewDialer(config.SMTPHost, config.SMTPPort, config.SMTPSender, config.SMTPPassword)
	return dialer.DialAndSend(msg)
}
