package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// StartBookingConsumer connects to RabbitMQ, declares the booking.booked
// and booking.cancelled queues (durable) and starts consuming from
// both. Each message is appended to logs/booking.log in a single-line,
// human-friendly format. The function runs a reconnect loop with
// exponential backoff and keeps running across broker restarts; it
// logs processing errors and rejects the offending message so the
// server continues operating.
func StartBookingConsumer() error {
	url := brokerURL()

	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Printf("booking-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn); err != nil {
			log.Printf("booking-consumer: consume loop ended: %v; reconnecting", err)
			time.Sleep(2 * time.Second)
			continue
		}
	}
}

func consumeLoop(conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("booking-consumer: set QoS failed: %v", err)
	}

	for _, name := range []string{SeatBookedQueue, BookingCancelledQueue} {
		if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
			return fmt.Errorf("queue declare %s: %w", name, err)
		}
	}

	booked, err := ch.Consume(SeatBookedQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", SeatBookedQueue, err)
	}
	cancelled, err := ch.Consume(BookingCancelledQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", BookingCancelledQueue, err)
	}

	for {
		select {
		case d, ok := <-booked:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			ack(d, handleSeatBooked(d.Body))
		case d, ok := <-cancelled:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			ack(d, handleBookingCancelled(d.Body))
		}
	}
}

// ack acknowledges the delivery on success and rejects it without
// requeueing on failure, avoiding tight redelivery loops.
func ack(d amqp.Delivery, err error) {
	if err != nil {
		log.Printf("booking-consumer: handle message failed: %v", err)
		_ = d.Nack(false, false)
		return
	}
	_ = d.Ack(false)
}

func handleSeatBooked(body []byte) error {
	var ev SeatBookedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	line := fmt.Sprintf("[%s] Seat booked | booking_id=%d | ref=%s | user_id=%d | show_id=%d | movie=%q | screen=%q | seat=%d\n",
		ev.BookedAt, ev.BookingID, ev.Reference, ev.UserID, ev.ShowID, ev.MovieTitle, ev.ScreenName, ev.SeatNumber)
	return appendBookingLog(line)
}

func handleBookingCancelled(body []byte) error {
	var ev BookingCancelledEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	line := fmt.Sprintf("[%s] Booking cancelled | booking_id=%d | ref=%s | user_id=%d | show_id=%d | seat=%d\n",
		ev.CancelledAt, ev.BookingID, ev.Reference, ev.UserID, ev.ShowID, ev.SeatNumber)
	return appendBookingLog(line)
}

func appendBookingLog(line string) error {
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	fpath := filepath.Join("logs", "booking.log")
	f, err := os.OpenFile(fpath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}
