package service

import (
	"context"
	"errors"
	"testing"

	"quickride/internal/repository"
	"quickride/internal/repository/memory"
)

func newDriverService() *DriverService {
	return NewDriverService(memory.NewDriverRepository())
}

func TestDriverService_RegisterAssignsSequentialIDs(t *testing.T) {
	t.Parallel()

	svc := newDriverService()
	ctx := context.Background()

	first, err := svc.Register(ctx, RegisterDriverRequest{Name: "Sipho", IDNumber: "8001015009087", Phone: "+27831111111"})
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.Register(ctx, RegisterDriverRequest{Name: "Thabo", IDNumber: "8203125009081", Phone: "+27832222222"})
	if err != nil {
		t.Fatal(err)
	}

	if first.ID != "DR-1" || second.ID != "DR-2" {
		t.Errorf("unexpected ids: %s, %s", first.ID, second.ID)
	}
}

func TestDriverService_RegisterValidation(t *testing.T) {
	t.Parallel()

	svc := newDriverService()
	ctx := context.Background()

	cases := []struct {
		req  RegisterDriverRequest
		want error
	}{
		{RegisterDriverRequest{IDNumber: "x", Phone: "+27"}, ErrInvalidDriverName},
		{RegisterDriverRequest{Name: "Sipho", Phone: "+27"}, ErrInvalidDriverIDNumber},
		{RegisterDriverRequest{Name: "Sipho", IDNumber: "x"}, ErrInvalidDriverPhone},
	}
	for _, tc := range cases {
		if _, err := svc.Register(ctx, tc.req); !errors.Is(err, tc.want) {
			t.Errorf("req %+v: expected %v, got %v", tc.req, tc.want, err)
		}
	}
}

func TestDriverService_RegisterDuplicatePhone(t *testing.T) {
	t.Parallel()

	svc := newDriverService()
	ctx := context.Background()

	req := RegisterDriverRequest{Name: "Sipho", IDNumber: "8001015009087", Phone: "+27831111111"}
	if _, err := svc.Register(ctx, req); err != nil {
		t.Fatal(err)
	}

	req.Name = "Someone Else"
	if _, err := svc.Register(ctx, req); !errors.Is(err, repository.ErrDriverExists) {
		t.Errorf("expected ErrDriverExists, got %v", err)
	}
}

func TestDriverService_Login(t *testing.T) {
	t.Parallel()

	svc := newDriverService()
	ctx := context.Background()

	registered, _ := svc.Register(ctx, RegisterDriverRequest{Name: "Sipho", IDNumber: "x", Phone: "+27831111111"})

	driver, err := svc.Login(ctx, "+27831111111")
	if err != nil {
		t.Fatal(err)
	}
	if driver.ID != registered.ID || driver.Name != "Sipho" {
		t.Errorf("unexpected driver: %+v", driver)
	}
	if !driver.LoggedIn {
		t.Error("login flag not set")
	}
}

func TestDriverService_LoginUnknownPhone(t *testing.T) {
	t.Parallel()

	svc := newDriverService()
	if _, err := svc.Login(context.Background(), "+27839999999"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDriverService_LoginEmptyPhone(t *testing.T) {
	t.Parallel()

	svc := newDriverService()
	if _, err := svc.Login(context.Background(), ""); !errors.Is(err, ErrInvalidDriverPhone) {
		t.Errorf("expected ErrInvalidDriverPhone, got %v", err)
	}
}
