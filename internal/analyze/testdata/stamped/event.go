package stamped

//butcher:derive
type Event struct {
	When Stamp `butcher:"flatten"`
}
