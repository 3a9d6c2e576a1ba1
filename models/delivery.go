package models

// DeliveryOutcome is the per-guild result of a routing pass
type DeliveryOutcome string

const (
	OutcomeDelivered        DeliveryOutcome = "delivered"
	OutcomeSkippedNoChannel DeliveryOutcome = "skipped_no_channel"
	OutcomeFailed           DeliveryOutcome = "failed"
)

// DeliveryResult records what happened for one guild during a routing pass
type DeliveryResult struct {
	GuildID   int64
	ChannelID int64 // 0 when no channel resolved
	RoleIDs   []int64
	Outcome   DeliveryOutcome
	Err       string // set when Outcome is failed
}

// DeliveryReport is the outcome list of one routing pass, one entry per known guild
type DeliveryReport struct {
	Results []DeliveryResult
}

// Delivered returns the number of successful sends
func (r *DeliveryReport) Delivered() int {
	return r.count(OutcomeDelivered)
}

// Skipped returns the number of guilds skipped for lack of a channel
func (r *DeliveryReport) Skipped() int {
	return r.count(OutcomeSkippedNoChannel)
}

// Failed returns the number of failed sends
func (r *DeliveryReport) Failed() int {
	return r.count(OutcomeFailed)
}

func (r *DeliveryReport) count(outcome DeliveryOutcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == outcome {
			n++
		}
	}
	return n
}
