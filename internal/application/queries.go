package application

import "github.com/bnema/umi-memepool/internal/domain"

type WalletStatus struct {
	Session           domain.WalletSession
	Chain             domain.Chain
	ProviderAvailable bool
}

func (s *SessionService) Status() WalletStatus {
	return WalletStatus{
		Session:           s.Snapshot(),
		Chain:             s.chain,
		ProviderAvailable: s.ProviderAvailable(),
	}
}
