package workers

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"memberhub_backend/internal/logger"
	"memberhub_backend/internal/models"
	"memberhub_backend/internal/services"
)

// expiryReminderDays is how far ahead of the end date members get a renewal
// reminder.
const expiryReminderDays = 3

// MembershipWorker runs the periodic membership housekeeping: flipping
// overdue memberships to expired and reminding members whose end date is
// close. Both tasks are idempotent per run.
type MembershipWorker struct {
	db                  *gorm.DB
	notificationService services.NotificationService
	interval            time.Duration
}

func NewMembershipWorker(db *gorm.DB, notificationService services.NotificationService) *MembershipWorker {
	return &MembershipWorker{
		db:                  db,
		notificationService: notificationService,
		interval:            6 * time.Hour,
	}
}

func (w *MembershipWorker) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *MembershipWorker) run(ctx context.Context) {
	// Run once on startup so a long-stopped instance catches up immediately.
	w.expireOverdueMemberships()
	w.remindExpiringMemberships()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("membership worker stopped")
			return
		case <-ticker.C:
			w.expireOverdueMemberships()
			w.remindExpiringMemberships()
		}
	}
}

// expireOverdueMemberships flips active memberships whose end date has passed
// and notifies the affected members.
func (w *MembershipWorker) expireOverdueMemberships() {
	var expired []models.UserProfile
	err := w.db.
		Where("membership_status = ? AND membership_end IS NOT NULL AND membership_end < NOW()",
			models.MembershipStatusActive).
		Find(&expired).Error
	if err != nil {
		logger.WithError("failed to query overdue memberships", err)
		return
	}
	if len(expired) == 0 {
		return
	}

	result := w.db.Model(&models.UserProfile{}).
		Where("membership_status = ? AND membership_end IS NOT NULL AND membership_end < NOW()",
			models.MembershipStatusActive).
		Updates(map[string]interface{}{
			"membership_status": models.MembershipStatusExpired,
			"updated_at":        time.Now(),
		})
	if result.Error != nil {
		logger.WithError("failed to expire memberships", result.Error)
		return
	}

	logger.Info("expired overdue memberships", "count", result.RowsAffected)

	for i := range expired {
		if err := w.notificationService.SendMembershipExpired(&expired[i]); err != nil {
			logger.WithError("failed to send expiry notification", err, "user_id", expired[i].ID)
		}
	}
}

// remindExpiringMemberships notifies members whose membership ends within the
// reminder window. The delivery log keeps one reminder per day from becoming
// spam: a member already reminded today is skipped.
func (w *MembershipWorker) remindExpiringMemberships() {
	var expiring []models.UserProfile
	err := w.db.
		Where("membership_status = ? AND membership_end IS NOT NULL", models.MembershipStatusActive).
		Where("membership_end BETWEEN NOW() AND NOW() + ?::interval", fmt.Sprintf("%d days", expiryReminderDays)).
		Find(&expiring).Error
	if err != nil {
		logger.WithError("failed to query expiring memberships", err)
		return
	}

	for i := range expiring {
		user := &expiring[i]

		var remindedToday int64
		err := w.db.Model(&models.NotificationLog{}).
			Where("recipient_id = ? AND template_name = ? AND sent_at > NOW() - INTERVAL '24 hours'",
				user.ID, services.TemplateMembershipExpiring).
			Count(&remindedToday).Error
		if err != nil || remindedToday > 0 {
			continue
		}

		daysLeft := expiryReminderDays
		if user.MembershipEnd != nil {
			daysLeft = int(time.Until(*user.MembershipEnd).Hours()/24) + 1
		}

		if err := w.notificationService.SendMembershipExpiring(user, daysLeft); err != nil {
			logger.WithError("failed to send expiry reminder", err, "user_id", user.ID)
		}
	}
}
