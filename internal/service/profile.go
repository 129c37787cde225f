package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"traderlens/internal/client/polymarket/dataapi"
	"traderlens/internal/client/polymarket/gamma"
	"traderlens/internal/client/polymarket/leaderboard"
	"traderlens/internal/client/polymarket/pnlapi"
)

// ProfileInfo is the enrichment block attached to a trader analysis. Every
// field is best-effort; an upstream failure leaves the corresponding field
// at its zero value rather than failing the whole analysis.
type ProfileInfo struct {
	Username       string         `json:"username"`
	Pseudonym      string         `json:"pseudonym,omitempty"`
	Bio            string         `json:"bio,omitempty"`
	ProfileImage   string         `json:"profileImage,omitempty"`
	PortfolioValue float64        `json:"portfolioValue"`
	TradedVolume   float64        `json:"tradedVolume"`
	LifetimeProfit float64        `json:"lifetimeProfit"`
	PnLHistory     []pnlapi.Point `json:"pnlHistory"`
}

// ProfileService fans out to the auxiliary Polymarket endpoints that
// decorate an analysis with identity and account-level numbers.
type ProfileService struct {
	Gamma       *gamma.Client
	Data        *dataapi.Client
	PnL         *pnlapi.Client
	Leaderboard *leaderboard.Client
	Logger      *zap.Logger
	Timeout     time.Duration
}

// Fetch gathers profile, portfolio value, traded volume and the PnL curve
// concurrently. It never returns an error: each leg degrades independently.
func (s *ProfileService) Fetch(ctx context.Context, address string) ProfileInfo {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var (
		wg   sync.WaitGroup
		info ProfileInfo
	)
	info.PnLHistory = []pnlapi.Point{}

	wg.Add(5)
	go func() {
		defer wg.Done()
		profile, err := s.Gamma.GetPublicProfile(ctx, address)
		if err != nil {
			s.Logger.Debug("profile lookup failed", zap.String("address", address), zap.Error(err))
			return
		}
		info.Username = profile.Name
		info.Pseudonym = profile.Pseudonym
		info.Bio = profile.Bio
		info.ProfileImage = profile.ProfileImage
	}()
	go func() {
		defer wg.Done()
		value, err := s.Data.Value(ctx, address)
		if err != nil {
			s.Logger.Debug("portfolio value lookup failed", zap.String("address", address), zap.Error(err))
			return
		}
		info.PortfolioValue = value.Value.InexactFloat64()
	}()
	go func() {
		defer wg.Done()
		traded, err := s.Data.Traded(ctx, address)
		if err == nil {
			info.TradedVolume = traded.Traded.InexactFloat64()
			return
		}
		s.Logger.Debug("traded volume lookup failed", zap.String("address", address), zap.Error(err))
		// The leaderboard tracks the same number; use it when the data-api
		// leg is down.
		row, err := s.Leaderboard.Volume(ctx, address)
		if err != nil || row == nil {
			s.Logger.Debug("leaderboard volume fallback failed", zap.String("address", address), zap.Error(err))
			return
		}
		info.TradedVolume = row.Amount
	}()
	go func() {
		defer wg.Done()
		points, err := s.PnL.UserPnL(ctx, address, "1m", "1d")
		if err != nil {
			s.Logger.Debug("pnl history lookup failed", zap.String("address", address), zap.Error(err))
			return
		}
		info.PnLHistory = points
	}()
	go func() {
		defer wg.Done()
		row, err := s.Leaderboard.Profit(ctx, address)
		if err != nil {
			s.Logger.Debug("leaderboard lookup failed", zap.String("address", address), zap.Error(err))
			return
		}
		if row != nil {
			info.LifetimeProfit = row.Amount
		}
	}()
	wg.Wait()
	return info
}
