// Command event-seeder posts synthetic tracking events to a running
// relay, for exercising forwarding rules in development.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"time"

	"github.com/brianvoe/gofakeit/v6"
)

var (
	relayURL = flag.String("relay-url", "http://localhost:8085", "relay base URL")
	count    = flag.Int("count", 100, "number of events to generate")
	interval = flag.Duration("interval", 100*time.Millisecond, "interval between events")
)

type collectBody struct {
	AID    string                 `json:"aid"`
	Event  string                 `json:"event"`
	Path   string                 `json:"path"`
	Params map[string]interface{} `json:"params"`
}

func main() {
	flag.Parse()
	gofakeit.Seed(time.Now().UnixNano())

	log.Printf("Seeding %d events against %s", *count, *relayURL)

	client := &http.Client{Timeout: 10 * time.Second}

	successCount := 0
	failCount := 0

	for i := 0; i < *count; i++ {
		body := generateEvent()
		if err := post(client, body); err != nil {
			failCount++
			log.Printf("send failed: %v", err)
		} else {
			successCount++
		}
		time.Sleep(*interval)
	}

	log.Printf("Done: %d sent, %d failed", successCount, failCount)
}

func generateEvent() collectBody {
	aid := gofakeit.UUID()
	path := gofakeit.RandomString([]string{"/", "/cart", "/checkout", "/productos", "/planes"})

	switch rand.Intn(3) {
	case 0:
		return collectBody{
			AID:   aid,
			Event: "page_view",
			Path:  path,
			Params: map[string]interface{}{
				"title": gofakeit.Sentence(3),
				"traffic_source": map[string]interface{}{
					"source":   gofakeit.RandomString([]string{"google", "facebook", ""}),
					"medium":   gofakeit.RandomString([]string{"cpc", "organic", ""}),
					"campaign": gofakeit.Word(),
				},
			},
		}
	case 1:
		return collectBody{
			AID:   aid,
			Event: "purchase",
			Path:  "/cart",
			Params: map[string]interface{}{
				"business_unit": gofakeit.Company(),
				"ecommerce": map[string]interface{}{
					"transaction_id": gofakeit.UUID(),
					"value":          fmt.Sprintf("%.2f", gofakeit.Price(10, 500)),
					"items": []map[string]interface{}{
						{
							"item_id":   gofakeit.UUID(),
							"item_name": gofakeit.ProductName(),
							"price":     gofakeit.Price(10, 500),
							"quantity":  rand.Intn(3) + 1,
						},
					},
				},
			},
		}
	default:
		return collectBody{
			AID:   aid,
			Event: "click",
			Path:  path,
			Params: map[string]interface{}{
				"id":   gofakeit.Word(),
				"text": gofakeit.BuzzWord(),
			},
		}
	}
}

func post(client *http.Client, body collectBody) error {
	buf, err := json.Marshal(body)
	if err != nil {
		return err
	}

	resp, err := client.Post(*relayURL+"/api/collect", "application/json", bytes.NewReader(buf))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}
