package service

import (
	"context"
	"fmt"

	"libraflow-backend/internal/domain"
	"libraflow-backend/internal/repository"
)

const (
	// ReturnPoints is the fixed award for each completed return.
	ReturnPoints = 10
	// BadgeLecteurAssidu is attached once when a user completes
	// badgeReturnThreshold returns.
	BadgeLecteurAssidu   = "Lecteur Assidu"
	badgeReturnThreshold = 5
)

type rewardsService struct {
	userRepo repository.UserRepository
	loanRepo repository.LoanRepository
	notifier NotificationService
}

func NewRewardsService(
	userRepo repository.UserRepository,
	loanRepo repository.LoanRepository,
	notifier NotificationService,
) RewardsService {
	return &rewardsService{
		userRepo: userRepo,
		loanRepo: loanRepo,
		notifier: notifier,
	}
}

// CreditReturn awards the fixed points and evaluates the badge threshold. The
// badge attach is idempotent at the storage layer, so two concurrent returns
// crossing the threshold award it once.
func (s *rewardsService) CreditReturn(ctx context.Context, userID int32, bookTitle string) error {
	if err := s.userRepo.AddPoints(ctx, userID, ReturnPoints); err != nil {
		return fmt.Errorf("add return points: %w", err)
	}

	s.notifier.Notify(ctx, userID, "Points gagnés",
		fmt.Sprintf("+%d points pour le retour de « %s ».", ReturnPoints, bookTitle),
		domain.NotificationSuccess)

	returned, err := s.loanRepo.CountReturnedByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("count returned loans: %w", err)
	}
	if returned < badgeReturnThreshold {
		return nil
	}

	awarded, err := s.userRepo.AttachBadge(ctx, userID, BadgeLecteurAssidu)
	if err != nil {
		return fmt.Errorf("attach badge: %w", err)
	}
	if awarded {
		s.notifier.Notify(ctx, userID, "Badge débloqué !",
			fmt.Sprintf("Vous avez obtenu le badge « %s » après %d retours.", BadgeLecteurAssidu, returned),
			domain.NotificationBadge)
	}
	return nil
}
