package service

import "storefront-service/internal/models"

// Машина статусов заказа и позиций. Единственное место, где проверяются
// переходы — контроллеры сравнений по строкам не делают.
var transitions = map[models.OrderStatus][]models.OrderStatus{
	models.StatusPending:         {models.StatusProcessing, models.StatusCancelled},
	models.StatusProcessing:      {models.StatusShipped, models.StatusCancelled},
	models.StatusShipped:         {models.StatusOutForDelivery, models.StatusCancelled},
	models.StatusOutForDelivery:  {models.StatusDelivered},
	models.StatusDelivered:       {models.StatusReturnRequested},
	models.StatusReturnRequested: {models.StatusReturned, models.StatusDelivered},
	models.StatusCancelled:       nil,
	models.StatusReturned:        nil,
}

func CanTransition(from, to models.OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsCancellable — отмена разрешена только до передачи в доставку.
func IsCancellable(s models.OrderStatus) bool {
	switch s {
	case models.StatusPending, models.StatusProcessing, models.StatusShipped:
		return true
	}
	return false
}

var forwardRank = map[models.OrderStatus]int{
	models.StatusPending:        0,
	models.StatusProcessing:     1,
	models.StatusShipped:        2,
	models.StatusOutForDelivery: 3,
	models.StatusDelivered:      4,
}

// ReduceOrderStatus выводит статус заказа из статусов позиций.
// Детерминированная и идемпотентная функция от мультимножества статусов:
//   - все позиции отменены → CANCELLED;
//   - все позиции закрыты (отмена/возврат), есть возврат → RETURNED;
//   - есть активный запрос возврата → RETURN_REQUESTED;
//   - иначе минимальный прогресс среди незакрытых позиций.
func ReduceOrderStatus(items []models.OrderStatus) models.OrderStatus {
	if len(items) == 0 {
		return models.StatusPending
	}

	var (
		active          []models.OrderStatus
		returned        bool
		returnRequested bool
	)
	for _, s := range items {
		switch s {
		case models.StatusCancelled:
		case models.StatusReturned:
			returned = true
		case models.StatusReturnRequested:
			returnRequested = true
		default:
			active = append(active, s)
		}
	}

	if len(active) == 0 && !returnRequested {
		if returned {
			return models.StatusReturned
		}
		return models.StatusCancelled
	}
	if returnRequested {
		return models.StatusReturnRequested
	}

	min := active[0]
	for _, s := range active[1:] {
		if forwardRank[s] < forwardRank[min] {
			min = s
		}
	}
	return min
}
