package main

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/websocket"
)

// connects to the live status feed and prints every push, for verifying
// the feed by hand
func main() {
	host := os.Getenv("PIXELFORGE_HOST")
	if host == "" {
		host = "localhost:8080"
	}

	u := url.URL{
		Scheme: "ws",
		Host:   host,
		Path:   "/api/v1/ws/status",
	}

	if token := os.Getenv("PIXELFORGE_TOKEN"); token != "" {
		q := u.Query()
		q.Set("token", token)
		u.RawQuery = q.Encode()
	}

	fmt.Printf("Connecting to %s\n", u.String())

	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatal("dial:", err)
	}
	defer c.Close() //nolint:errcheck

	fmt.Println("Connected, waiting for status pushes...")

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	done := make(chan struct{})

	go func() {
		defer close(done)
		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				log.Println("read:", err)
				return
			}
			fmt.Printf("%s %s\n", time.Now().Format("15:04:05"), message)
		}
	}()

	select {
	case <-done:
		return
	case <-interrupt:
		fmt.Println("\nInterrupt received, closing connection...")

		err := c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		if err != nil {
			log.Println("write close:", err)
			return
		}
		select {
		case <-done:
		case <-time.After(time.Second):
		}
	}
}
