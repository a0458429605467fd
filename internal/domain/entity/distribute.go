package entity

// DistributeStocks reparte los stocks de una máquina entre lockerCount lockers
// (numerados desde 1) en round robin. Se usa cuando el backend entrega el stock
// a nivel de máquina sin asignación a compartimentos; el reparto es determinista
// para que dos cargas del mismo catálogo produzcan el mismo layout.
func DistributeStocks(stocks []Stock, lockerCount int) []Locker {
	if lockerCount <= 0 {
		return nil
	}
	lockers := make([]Locker, lockerCount)
	for i := range lockers {
		lockers[i] = Locker{ID: i + 1}
	}
	for i, s := range stocks {
		l := &lockers[i%lockerCount]
		l.Stocks = append(l.Stocks, s.Normalize())
		l.IsOccupied = true
	}
	return lockers
}
