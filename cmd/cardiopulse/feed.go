package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Gowtham-1301/cardiopulse/internal/simulator"
	"github.com/Gowtham-1301/cardiopulse/internal/stream"
)

var (
	feedURL     string
	feedSubject string
	feedRate    float64
	feedBPM     float64
	feedNoise   float64
	feedBatch   int
)

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Publish a synthetic ECG waveform to a NATS subject",
	RunE:  runFeed,
}

func init() {
	feedCmd.Flags().StringVar(&feedURL, "nats", "nats://127.0.0.1:4222", "NATS server URL")
	feedCmd.Flags().StringVar(&feedSubject, "subject", "ecg.wave", "subject to publish on")
	feedCmd.Flags().Float64Var(&feedRate, "rate", 250, "sample rate (Hz)")
	feedCmd.Flags().Float64Var(&feedBPM, "bpm", 72, "heart rate (BPM)")
	feedCmd.Flags().Float64Var(&feedNoise, "noise", 0.005, "noise amplitude")
	feedCmd.Flags().IntVar(&feedBatch, "batch", 10, "samples per frame")
}

func runFeed(cmd *cobra.Command, args []string) error {
	nc, err := stream.Connect(feedURL)
	if err != nil {
		return err
	}
	defer nc.Drain()

	sim := simulator.New(feedRate, feedBPM, feedNoise)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	period := time.Duration(float64(time.Second) / feedRate)
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	log.Printf("[Feed] Publishing %.0f Hz waveform at %.0f BPM to %s", feedRate, feedBPM, feedSubject)

	buffer := make([]float32, 0, feedBatch)

	for {
		select {
		case <-sig:
			log.Println("[Feed] Stopping")
			return nil

		case <-ticker.C:
			_, v := sim.Next()
			buffer = append(buffer, float32(v))

			if len(buffer) >= feedBatch {
				if err := nc.Publish(feedSubject, stream.EncodeFrame(buffer)); err != nil {
					return err
				}
				buffer = buffer[:0]
			}
		}
	}
}
