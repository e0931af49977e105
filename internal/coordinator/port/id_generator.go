package port

//go:generate mockgen -destination=mocks/id_generator_mock.go -package=mocks -source=id_generator.go

// IDGenerator mints IDs for documents submitted without one.
type IDGenerator interface {
	NextString() (string, error)
}
