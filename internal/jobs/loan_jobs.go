package jobs

import (
	"context"
	"fmt"
	"time"

	"libraflow-backend/internal/domain"
	"libraflow-backend/internal/logger"
)

// dueReminderWindow is how far ahead the reminder job looks. Loans due within
// this window get an email and an in-app notification.
const dueReminderWindow = 48 * time.Hour

// SendDueReminders notifies borrowers whose active loans come due soon.
func (jr *JobRunner) SendDueReminders() {
	jr.runWithRecovery("SendDueReminders", func() {
		ctx := context.Background()
		now := time.Now()

		loans, err := jr.store.LoanRepository.ListActiveDueBetween(ctx, now, now.Add(dueReminderWindow))
		if err != nil {
			logger.Error("Failed to list loans due soon", "error", err)
			return
		}

		count := 0
		for i := range loans {
			loan := &loans[i]
			if loan.User == nil || loan.Book == nil || loan.DueDate == nil {
				logger.Error("Loan missing joined data, skipping reminder", "loan_id", loan.ID)
				continue
			}
			daysLeft := int(loan.DueDate.Sub(now).Hours()/24) + 1

			if err := jr.services.Email.SendDueReminder(ctx, loan.User.Email, loan.User.Name, loan.Book.Title, daysLeft); err != nil {
				logger.Error("Failed to send due reminder email",
					"loan_id", loan.ID, "user_id", loan.UserID, "error", err)
			}
			jr.services.Notification.Notify(ctx, loan.UserID,
				"Rappel d'échéance",
				fmt.Sprintf("Le livre \"%s\" doit être rendu dans %d jour(s).", loan.Book.Title, daysLeft),
				domain.NotificationWarning,
			)
			count++
		}
		logger.Info("Due reminders sent", "count", count)
	})
}

// SendOverdueAlerts notifies borrowers whose active loans are past due. The
// loan record is not touched: lateness stays a derived view over due_date.
func (jr *JobRunner) SendOverdueAlerts() {
	jr.runWithRecovery("SendOverdueAlerts", func() {
		ctx := context.Background()
		now := time.Now()

		loans, err := jr.store.LoanRepository.ListActiveOverdue(ctx, now)
		if err != nil {
			logger.Error("Failed to list overdue loans", "error", err)
			return
		}

		count := 0
		for i := range loans {
			loan := &loans[i]
			if loan.User == nil || loan.Book == nil || loan.DueDate == nil {
				logger.Error("Loan missing joined data, skipping alert", "loan_id", loan.ID)
				continue
			}
			daysLate := int(now.Sub(*loan.DueDate).Hours() / 24)
			if daysLate < 1 {
				daysLate = 1
			}

			if err := jr.services.Email.SendOverdueNotice(ctx, loan.User.Email, loan.User.Name, loan.Book.Title, daysLate); err != nil {
				logger.Error("Failed to send overdue notice email",
					"loan_id", loan.ID, "user_id", loan.UserID, "error", err)
			}
			jr.services.Notification.Notify(ctx, loan.UserID,
				"Livre en retard",
				fmt.Sprintf("Le livre \"%s\" est en retard de %d jour(s). Merci de le rapporter.", loan.Book.Title, daysLate),
				domain.NotificationError,
			)
			count++
		}
		logger.Info("Overdue alerts sent", "count", count)
	})
}
