package orders

import "strconv"

const (
	TopicOrderPlaced     = "order.placed"
	TopicStockReconciled = "order.stock.reconciled"
)

// Partition key = order id so all events of one order keep their order.
func PartitionKey(orderID int64) []byte {
	return []byte(strconv.FormatInt(orderID, 10))
}
