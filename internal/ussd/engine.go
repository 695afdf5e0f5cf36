// Package ussd implements the dialog state machine behind the USSD gateway
// callback. Each turn consumes a session and one input token and produces
// the next menu text; the gateway keeps prompting while replies continue.
package ussd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"quickride/internal/catalog"
	"quickride/internal/domain"
	"quickride/internal/fare"
	"quickride/internal/service"
)

const (
	// DefaultPageSize is the number of menu entries per page.
	DefaultPageSize = 6

	// DefaultMaxDistanceKm bounds the drop-off town suggestions when the
	// pickup zone carries coordinates.
	DefaultMaxDistanceKm = 30
)

const (
	msgInvalidSelection = "Invalid selection"
	msgInvalidOption    = "Invalid option"
	msgRideReceived     = "Your ride request has been received. We will notify drivers nearby."
	msgRideCancelled    = "Ride cancelled."
	msgHelp             = "For help call 0800-000-000"
	msgNotImplemented   = "Feature not implemented yet."
	msgUnexpected       = "Unexpected error"
)

// Reply is one dialog turn's response. End marks the terminal turn; the
// gateway closes the session after an END reply.
type Reply struct {
	Text string
	End  bool
}

func con(text string) Reply { return Reply{Text: text} }
func end(text string) Reply { return Reply{Text: text, End: true} }

// Engine drives the booking dialog. It mutates the session only on valid
// transitions; invalid input leaves the session exactly as it was.
type Engine struct {
	catalog       *catalog.Catalog
	fares         *fare.Estimator
	trips         *service.TripService
	pageSize      int
	maxDistanceKm float64
}

// NewEngine creates a dialog engine. pageSize and maxDistanceKm fall back to
// the defaults when non-positive.
func NewEngine(cat *catalog.Catalog, fares *fare.Estimator, trips *service.TripService, pageSize int, maxDistanceKm float64) *Engine {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if maxDistanceKm <= 0 {
		maxDistanceKm = DefaultMaxDistanceKm
	}
	return &Engine{
		catalog:       cat,
		fares:         fares,
		trips:         trips,
		pageSize:      pageSize,
		maxDistanceKm: maxDistanceKm,
	}
}

// Handle runs one dialog turn for the session with a single input token.
func (e *Engine) Handle(ctx context.Context, session *domain.Session, input string) (Reply, error) {
	input = strings.TrimSpace(input)

	switch session.Step {
	case domain.StepMain:
		return e.handleMain(session, input), nil
	case domain.StepPickTown:
		return e.handlePickTown(session, input), nil
	case domain.StepPickZone:
		return e.handlePickZone(session, input), nil
	case domain.StepDropTown:
		return e.handleDropTown(session, input), nil
	case domain.StepDropZone:
		return e.handleDropZone(session, input), nil
	case domain.StepConfirm:
		return e.handleConfirm(ctx, session, input)
	default:
		return end(msgUnexpected), nil
	}
}

// ReplayPath adapts the accumulated-input gateway convention: the full
// '*'-joined path is fed through the same transition table one token at a
// time. The caller passes a session at the root menu.
func (e *Engine) ReplayPath(ctx context.Context, session *domain.Session, path string) (Reply, error) {
	var reply Reply
	var err error
	for _, token := range strings.Split(path, "*") {
		reply, err = e.Handle(ctx, session, token)
		if err != nil || reply.End {
			return reply, err
		}
	}
	return reply, nil
}

func (e *Engine) handleMain(session *domain.Session, input string) Reply {
	switch input {
	case "":
		return con("Welcome to QuickRide\n1. Book Taxi\n2. My Rides\n3. Help")
	case "1":
		session.Step = domain.StepPickTown
		session.Page = 1
		return con(e.townMenu("Select PICK-UP town:", e.catalog.UniqueTowns(), 1))
	case "2":
		return end(msgNotImplemented)
	case "3":
		return end(msgHelp)
	default:
		return end(msgInvalidOption)
	}
}

func (e *Engine) handlePickTown(session *domain.Session, input string) Reply {
	towns := e.catalog.UniqueTowns()

	selection, ok := parseSelection(input)
	if !ok {
		return end(msgInvalidSelection)
	}

	if selection == 0 {
		session.Page++
		return con(e.townMenu("Select PICK-UP town:", towns, session.Page))
	}

	index, ok := e.resolveIndex(session.Page, selection, len(towns))
	if !ok {
		return end(msgInvalidSelection)
	}

	session.Data.PickupTown = towns[index]
	session.Step = domain.StepPickZone
	session.Page = 1

	zones := e.catalog.ZonesForTown(session.Data.PickupTown)
	return con(e.zoneMenu(fmt.Sprintf("Select PICK-UP zone in %s:", session.Data.PickupTown), zones, 1))
}

func (e *Engine) handlePickZone(session *domain.Session, input string) Reply {
	zones := e.catalog.ZonesForTown(session.Data.PickupTown)

	selection, ok := parseSelection(input)
	if !ok {
		return end(msgInvalidSelection)
	}

	if selection == 0 {
		session.Page++
		return con(e.zoneMenu(fmt.Sprintf("Select PICK-UP zone in %s:", session.Data.PickupTown), zones, session.Page))
	}

	index, ok := e.resolveIndex(session.Page, selection, len(zones))
	if !ok {
		return end(msgInvalidSelection)
	}

	zone := zones[index]
	session.Data.PickupZone = &zone
	session.Step = domain.StepDropTown
	session.Page = 1

	// Drop-off suggestions are distance-filtered when the pickup zone has
	// coordinates; the catalog falls back to all towns otherwise.
	session.Data.CandidateTowns = e.catalog.TownsWithinRadius(zone, e.maxDistanceKm)

	return con(e.townMenu("Select DROP-OFF town:", session.Data.CandidateTowns, 1))
}

func (e *Engine) handleDropTown(session *domain.Session, input string) Reply {
	towns := session.Data.CandidateTowns
	if len(towns) == 0 {
		towns = e.catalog.UniqueTowns()
	}

	selection, ok := parseSelection(input)
	if !ok {
		return end(msgInvalidSelection)
	}

	if selection == 0 {
		session.Page++
		return con(e.townMenu("Select DROP-OFF town:", towns, session.Page))
	}

	index, ok := e.resolveIndex(session.Page, selection, len(towns))
	if !ok {
		return end(msgInvalidSelection)
	}

	session.Data.DropTown = towns[index]
	session.Step = domain.StepDropZone
	session.Page = 1

	zones := e.catalog.ZonesForTown(session.Data.DropTown)
	return con(e.zoneMenu(fmt.Sprintf("Select DROP-OFF zone in %s:", session.Data.DropTown), zones, 1))
}

func (e *Engine) handleDropZone(session *domain.Session, input string) Reply {
	zones := e.catalog.ZonesForTown(session.Data.DropTown)

	selection, ok := parseSelection(input)
	if !ok {
		return end(msgInvalidSelection)
	}

	if selection == 0 {
		session.Page++
		return con(e.zoneMenu(fmt.Sprintf("Select DROP-OFF zone in %s:", session.Data.DropTown), zones, session.Page))
	}

	index, ok := e.resolveIndex(session.Page, selection, len(zones))
	if !ok {
		return end(msgInvalidSelection)
	}

	zone := zones[index]
	session.Data.DropZone = &zone
	session.Step = domain.StepConfirm

	estimate, _ := e.fares.Estimate(*session.Data.PickupZone, zone)
	session.Data.Fare = estimate

	return con(fmt.Sprintf(
		"Confirm Ride:\nFrom: %s (%s)\nTo: %s (%s)\nFare estimate: %s\n1. Confirm\n2. Cancel",
		session.Data.PickupZone.Name, session.Data.PickupTown,
		zone.Name, session.Data.DropTown,
		estimate,
	))
}

func (e *Engine) handleConfirm(ctx context.Context, session *domain.Session, input string) (Reply, error) {
	if input == "1" {
		_, err := e.trips.Create(ctx, service.CreateTripRequest{
			Phone:       session.Phone,
			Pickup:      session.Data.PickupZone.Name,
			Dropoff:     session.Data.DropZone.Name,
			PickupTown:  session.Data.PickupTown,
			DropoffTown: session.Data.DropTown,
			Fare:        session.Data.Fare,
		})
		if err != nil {
			return Reply{}, err
		}

		session.Step = domain.StepDone
		return end(msgRideReceived), nil
	}

	// Anything else cancels and resets to the root menu.
	session.Step = domain.StepMain
	session.Page = 1
	session.Data = domain.SessionData{}
	return end(msgRideCancelled), nil
}

// resolveIndex maps a 1-based page selection to a global list index.
func (e *Engine) resolveIndex(page, selection, total int) (int, bool) {
	index := (page-1)*e.pageSize + (selection - 1)
	if index < 0 || index >= total {
		return 0, false
	}
	return index, true
}

func (e *Engine) townMenu(title string, towns []string, page int) string {
	return buildMenu(title, towns, page, e.pageSize)
}

func (e *Engine) zoneMenu(title string, zones []domain.Location, page int) string {
	return buildZoneMenu(title, zones, page, e.pageSize)
}

// parseSelection parses a menu choice. "0" is always "next page"; anything
// non-numeric fails.
func parseSelection(input string) (int, bool) {
	n, err := strconv.Atoi(input)
	if err != nil {
		return 0, false
	}
	return n, true
}
