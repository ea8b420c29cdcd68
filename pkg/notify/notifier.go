// Package notify delivers alert messages to recipients. The transport is
// behind the Notifier interface so the monitor core never knows whether it
// is talking to Telegram, SMS, or a test double.
package notify

import (
	"sync"

	"worklistmon/models"
)

// Notifier sends one message to one recipient.
type Notifier interface {
	Send(text string, contact models.Contact) models.DeliveryResult
}

// fanOutWorkers bounds delivery concurrency. Deliveries are independent and
// duplicate sends are a cosmetic nuisance, not a correctness problem, so a
// small pool is safe.
const fanOutWorkers = 4

// FanOut delivers the message to every contact with per-recipient error
// isolation: one failure never blocks or fails the others. Results are
// returned in contact order.
func FanOut(n Notifier, text string, contacts []models.Contact) []models.DeliveryResult {
	results := make([]models.DeliveryResult, len(contacts))

	jobs := make(chan int)
	var wg sync.WaitGroup
	workers := fanOutWorkers
	if len(contacts) < workers {
		workers = len(contacts)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = n.Send(text, contacts[i])
			}
		}()
	}
	for i := range contacts {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}
