package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"campus/spacehub/internal/model"
	"campus/spacehub/internal/service"
	"campus/spacehub/internal/testfixtures"
)

func TestCreateSpaceValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	space, err := env.spaces.Create(ctx, service.SpaceInput{Name: "  Quiet Desk 1 ", Capacity: 1})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if space.Name != "Quiet Desk 1" || space.Type != model.SpaceTypeDesk || space.MinCapacity != 1 {
		t.Fatalf("defaults not applied: %+v", space)
	}

	cases := []service.SpaceInput{
		{Name: "", Capacity: 2},
		{Name: "Room", Capacity: 0},
		{Name: "Room", Capacity: 4, MinCapacity: 5},
		{Name: "Room", Capacity: 4, Type: "auditorium"},
	}
	for _, in := range cases {
		_, err := env.spaces.Create(ctx, in)
		expectErr(t, err, service.ErrInvalidSpace)
	}
}

func TestListSpacesFilters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.h.CreateSpace(t, testfixtures.WithName("Alpha Desk"))
	env.h.CreateSpace(t, testfixtures.WithName("Beta Room"), testfixtures.WithType(model.SpaceTypeGroupRoom), testfixtures.WithCapacity(6, 2))
	env.h.CreateSpace(t, testfixtures.WithName("Gamma Room"), testfixtures.WithType(model.SpaceTypeGroupRoom), testfixtures.WithCapacity(10, 4))

	page, err := env.spaces.List(ctx, service.ListSpacesInput{Type: "group-room"})
	if err != nil || page.Total != 2 {
		t.Fatalf("type filter: %+v err=%v", page, err)
	}
	if page.Items[0].Name != "Beta Room" {
		t.Fatalf("expected name ordering, got %s first", page.Items[0].Name)
	}

	page, err = env.spaces.List(ctx, service.ListSpacesInput{MinCapacity: intPtr(8)})
	if err != nil || page.Total != 1 || page.Items[0].Name != "Gamma Room" {
		t.Fatalf("capacity filter: %+v err=%v", page, err)
	}

	page, err = env.spaces.List(ctx, service.ListSpacesInput{Search: "desk", Limit: 1})
	if err != nil || page.Total != 1 || page.Limit != 1 {
		t.Fatalf("search filter: %+v err=%v", page, err)
	}

	_, err = env.spaces.List(ctx, service.ListSpacesInput{Type: "lab"})
	expectErr(t, err, service.ErrInvalidFilter)
}

func TestSpaceFloorAndEquipment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	floor := env.h.CreateFloor(t, "Floor 3", "Main Library")

	missing := uuid.New()
	_, err := env.spaces.Create(ctx, service.SpaceInput{Name: "Lost Room", Capacity: 4, FloorID: &missing})
	expectErr(t, err, service.ErrFloorNotFound)

	room, err := env.spaces.Create(ctx, service.SpaceInput{
		Name:      "Media Room",
		Type:      model.SpaceTypeGroupRoom,
		Capacity:  6,
		FloorID:   &floor.ID,
		Equipment: []string{" Projector ", "", "Whiteboard"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(room.Equipment) != 2 || room.Equipment[0] != "Projector" {
		t.Fatalf("equipment not normalized: %q", room.Equipment)
	}
	env.h.CreateSpace(t, testfixtures.WithName("Plain Desk"), testfixtures.WithEquipment("Lamp"))

	page, err := env.spaces.List(ctx, service.ListSpacesInput{FloorID: &floor.ID})
	if err != nil || page.Total != 1 || page.Items[0].ID != room.ID {
		t.Fatalf("floor filter: %+v err=%v", page, err)
	}
	page, err = env.spaces.List(ctx, service.ListSpacesInput{Equipment: []string{"projector", " WHITEBOARD "}})
	if err != nil || page.Total != 1 || page.Items[0].ID != room.ID {
		t.Fatalf("equipment filter: %+v err=%v", page, err)
	}
	page, err = env.spaces.List(ctx, service.ListSpacesInput{Equipment: []string{"Projector", "Lamp"}})
	if err != nil || page.Total != 0 || len(page.Items) != 0 {
		t.Fatalf("equipment filter needs every item: %+v err=%v", page, err)
	}

	kit := []string{"Lamp"}
	updated, err := env.spaces.Update(ctx, room.ID, service.SpaceUpdate{Equipment: &kit})
	if err != nil || len(updated.Equipment) != 1 || updated.Equipment[0] != "Lamp" {
		t.Fatalf("Update equipment = %+v, %v", updated, err)
	}
	_, err = env.spaces.Update(ctx, room.ID, service.SpaceUpdate{FloorID: &missing})
	expectErr(t, err, service.ErrFloorNotFound)
}

func TestUpdateSpaceKeepsCapacityInvariant(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	space := env.h.CreateSpace(t, testfixtures.WithCapacity(4, 2))

	_, err := env.spaces.Update(ctx, space.ID, service.SpaceUpdate{Capacity: intPtr(1)})
	expectErr(t, err, service.ErrInvalidSpace)

	name := "Renamed"
	updated, err := env.spaces.Update(ctx, space.ID, service.SpaceUpdate{Name: &name, Capacity: intPtr(6)})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != name || updated.Capacity != 6 || updated.MinCapacity != 2 {
		t.Fatalf("unexpected update %+v", updated)
	}

	_, err = env.spaces.Update(ctx, uuid.New(), service.SpaceUpdate{Name: &name})
	expectErr(t, err, service.ErrSpaceNotFound)
}

func TestMarkUnavailableAndAvailable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	space := env.h.CreateSpace(t)

	end := testfixtures.At(7, 0)
	_, err := env.spaces.MarkUnavailable(ctx, space.ID, "Cleaning", testfixtures.At(9, 0), &end)
	expectErr(t, err, service.ErrInvalidTimeRange)

	end = testfixtures.At(12, 0)
	marked, err := env.spaces.MarkUnavailable(ctx, space.ID, "Cleaning", testfixtures.At(9, 0), &end)
	if err != nil {
		t.Fatalf("MarkUnavailable: %v", err)
	}
	if marked.AvailabilityStatus != model.AvailabilityUnavailable || marked.Reason() != "Cleaning" {
		t.Fatalf("unexpected space %+v", marked)
	}

	at := testfixtures.At(10, 0)
	snapshot, err := env.availability.Snapshot(ctx, &at)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if got := findSpace(t, snapshot, space.ID); got.Status != model.AvailabilityUnavailable {
		t.Fatalf("expected unavailable, got %+v", got)
	}

	reopened, err := env.spaces.MarkAvailable(ctx, space.ID)
	if err != nil {
		t.Fatalf("MarkAvailable: %v", err)
	}
	if reopened.UnavailabilityStart != nil || reopened.UnavailabilityEnd != nil || reopened.UnavailabilityReason != nil {
		t.Fatalf("window not cleared: %+v", reopened)
	}
	stored, err := env.spaces.Get(ctx, space.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if stored.AvailabilityStatus != model.AvailabilityAvailable || stored.UnavailabilityStart != nil {
		t.Fatalf("stored space still closed: %+v", stored)
	}
}
