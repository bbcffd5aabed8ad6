// ABOUTME: Entry point for the TinySync clock TUI
// ABOUTME: Parses CLI flags, optionally discovers a LAN server, keeps the clock synced
package main

import (
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tinysync/tinysync-go/internal/discovery"
	"github.com/tinysync/tinysync-go/internal/ui"
	"github.com/tinysync/tinysync-go/internal/version"
	"github.com/tinysync/tinysync-go/pkg/ntp"
)

var (
	server   = flag.String("server", ntp.DefaultServer, "NTP server hostname or address")
	port     = flag.Int("port", ntp.DefaultPort, "NTP server port")
	timeout  = flag.Duration("timeout", ntp.DefaultTimeout, "Response timeout per exchange")
	tzHours  = flag.Int("tz-hours", 0, "Fixed display offset in hours")
	resync   = flag.Duration("resync", 15*time.Minute, "Interval between re-syncs (0 disables)")
	discover = flag.Bool("discover", false, "Discover an NTP server on the LAN via mDNS")
	noTUI    = flag.Bool("no-tui", false, "Disable TUI, log sync results instead")
	logFile  = flag.String("log-file", "ntpclock.log", "Log file path")
	showVer  = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVer {
		log.SetFlags(0)
		log.Printf("%s %s", version.Product, version.Version)
		return
	}

	useTUI := !*noTUI

	// Set up logging
	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer func() { _ = f.Close() }()

	if useTUI {
		// TUI mode: log only to file
		log.SetOutput(f)
	} else {
		// Streaming logs mode: log to both stdout and file
		log.SetOutput(io.MultiWriter(os.Stdout, f))
	}

	serverHost := *server
	serverPort := *port

	// Optionally find a server on the LAN
	if *discover {
		log.Printf("Browsing for LAN NTP servers...")
		disc := discovery.NewManager(discovery.Config{})
		disc.Browse()

		select {
		case found := <-disc.Servers():
			serverHost = found.Host
			if found.Port != 0 {
				serverPort = found.Port
			}
			log.Printf("Using discovered server %s:%d", serverHost, serverPort)
		case <-time.After(10 * time.Second):
			log.Printf("No LAN server found, falling back to %s", serverHost)
		}
		disc.Stop()
	}

	client := ntp.New(ntp.Config{
		Server:  serverHost,
		Port:    serverPort,
		Timeout: *timeout,
	})
	client.SetOffsetHours(*tzHours)

	log.Printf("Starting %s against %s:%d", version.Product, serverHost, serverPort)

	if err := client.Sync(); err != nil {
		log.Printf("Initial sync failed: %v", err)
	}

	// TUI setup
	var tuiProg *tea.Program
	var syncCtrl *ui.SyncControl

	if useTUI {
		syncCtrl = ui.NewSyncControl()
		tuiProg, err = ui.Run(syncCtrl)
		if err != nil {
			log.Fatalf("Failed to start TUI: %v", err)
		}
		go tuiProg.Run()
	}

	updateTUI := func(msg ui.StatusMsg) {
		if tuiProg != nil {
			tuiProg.Send(msg)
		}
	}

	synced := client.Synchronized()
	syncCount := 0
	if synced {
		syncCount = 1
	}
	updateTUI(ui.StatusMsg{
		Server:    serverHost,
		Synced:    &synced,
		SyncCount: syncCount,
	})

	// Tickers: fast one repaints the clock, slow one re-syncs
	paint := time.NewTicker(250 * time.Millisecond)
	defer paint.Stop()

	var resyncC <-chan time.Time
	if *resync > 0 {
		rt := time.NewTicker(*resync)
		defer rt.Stop()
		resyncC = rt.C
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	doSync := func() {
		if err := client.Sync(); err != nil {
			log.Printf("Sync failed: %v", err)
			updateTUI(ui.StatusMsg{LastError: err.Error()})
			return
		}
		syncCount++
		ok := true
		log.Printf("Synced with %s:%d (count=%d, now=%d)", serverHost, serverPort, syncCount, client.NowMillis())
		updateTUI(ui.StatusMsg{Synced: &ok, SyncCount: syncCount})
	}

	for {
		select {
		case <-paint.C:
			if client.Synchronized() {
				updateTUI(ui.StatusMsg{
					Millis:   client.NowMillis(),
					Calendar: client.NowCalendar(),
				})
			}

		case <-resyncC:
			doSync()

		case <-requestChan(syncCtrl):
			doSync()

		case <-quitChan(syncCtrl):
			log.Printf("Quit requested from TUI")
			client.End()
			return

		case <-sigChan:
			log.Printf("Shutdown signal received")
			client.End()
			return
		}
	}
}

// requestChan tolerates a nil control when running without TUI
func requestChan(ctrl *ui.SyncControl) <-chan ui.SyncRequestMsg {
	if ctrl == nil {
		return nil
	}
	return ctrl.Requests
}

// quitChan tolerates a nil control when running without TUI
func quitChan(ctrl *ui.SyncControl) <-chan ui.QuitMsg {
	if ctrl == nil {
		return nil
	}
	return ctrl.Quit
}
