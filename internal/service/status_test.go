package service

import (
	"testing"

	"storefront-service/internal/models"
)

func TestCanTransition(t *testing.T) {
	allowed := [][2]models.OrderStatus{
		{models.StatusPending, models.StatusProcessing},
		{models.StatusPending, models.StatusCancelled},
		{models.StatusProcessing, models.StatusShipped},
		{models.StatusShipped, models.StatusOutForDelivery},
		{models.StatusOutForDelivery, models.StatusDelivered},
		{models.StatusDelivered, models.StatusReturnRequested},
		{models.StatusReturnRequested, models.StatusReturned},
		{models.StatusReturnRequested, models.StatusDelivered},
	}
	for _, tr := range allowed {
		if !CanTransition(tr[0], tr[1]) {
			t.Errorf("%s→%s must be allowed", tr[0], tr[1])
		}
	}

	forbidden := [][2]models.OrderStatus{
		{models.StatusPending, models.StatusDelivered},
		{models.StatusOutForDelivery, models.StatusCancelled},
		{models.StatusDelivered, models.StatusCancelled},
		{models.StatusCancelled, models.StatusPending},
		{models.StatusReturned, models.StatusDelivered},
		{models.StatusProcessing, models.StatusOutForDelivery},
	}
	for _, tr := range forbidden {
		if CanTransition(tr[0], tr[1]) {
			t.Errorf("%s→%s must be forbidden", tr[0], tr[1])
		}
	}
}

func TestIsCancellable(t *testing.T) {
	for _, s := range []models.OrderStatus{models.StatusPending, models.StatusProcessing, models.StatusShipped} {
		if !IsCancellable(s) {
			t.Errorf("%s must be cancellable", s)
		}
	}
	for _, s := range []models.OrderStatus{models.StatusOutForDelivery, models.StatusDelivered, models.StatusCancelled, models.StatusReturned} {
		if IsCancellable(s) {
			t.Errorf("%s must not be cancellable", s)
		}
	}
}

func TestReduceOrderStatus(t *testing.T) {
	cases := []struct {
		name  string
		items []models.OrderStatus
		want  models.OrderStatus
	}{
		{"пусто", nil, models.StatusPending},
		{"все отменены", []models.OrderStatus{models.StatusCancelled, models.StatusCancelled}, models.StatusCancelled},
		{"закрыт с возвратом", []models.OrderStatus{models.StatusCancelled, models.StatusReturned}, models.StatusReturned},
		{"активный запрос возврата", []models.OrderStatus{models.StatusDelivered, models.StatusReturnRequested}, models.StatusReturnRequested},
		{"минимальный прогресс", []models.OrderStatus{models.StatusDelivered, models.StatusShipped}, models.StatusShipped},
		{"отмена не тянет вниз", []models.OrderStatus{models.StatusCancelled, models.StatusDelivered}, models.StatusDelivered},
		{"частичная отмена", []models.OrderStatus{models.StatusCancelled, models.StatusProcessing, models.StatusShipped}, models.StatusProcessing},
	}
	for _, tc := range cases {
		if got := ReduceOrderStatus(tc.items); got != tc.want {
			t.Errorf("%s: got %s want %s", tc.name, got, tc.want)
		}
	}

	// идемпотентность: повторное применение к результату ничего не меняет
	mixed := []models.OrderStatus{models.StatusCancelled, models.StatusShipped, models.StatusDelivered}
	first := ReduceOrderStatus(mixed)
	if again := ReduceOrderStatus([]models.OrderStatus{first}); again != first {
		t.Errorf("reduce not idempotent: %s then %s", first, again)
	}
}
