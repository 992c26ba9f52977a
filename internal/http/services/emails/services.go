package emails

import (
	"github.com/CardChase151/clients-sub001/internal/mail"
	"github.com/CardChase151/clients-sub001/internal/store"
)

// Deps are nil when the matching backend is not configured.
type Deps struct {
	Sender      mail.Sender
	Lister      mail.Lister
	History     store.History
	From        string
	AdminNotify string
}

type Services struct {
	Status    StatusReporter
	Milestone MilestoneSender
	Profile   ProfileNotifier
}

func NewServices(d Deps) Services {
	return Services{
		Status:    NewStatusReporter(d.Lister, d.Sender),
		Milestone: NewMilestoneSender(d.Sender, d.History, d.From),
		Profile:   NewProfileNotifier(d.Sender, d.From, d.AdminNotify),
	}
}
