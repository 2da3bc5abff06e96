package clients

import "time"

// Species define las especies que atiende la clínica.
// @Enum dog, cat, other
type Species string

const (
	SpeciesDog   Species = "dog"
	SpeciesCat   Species = "cat"
	SpeciesOther Species = "other"
)

func ParseSpecies(raw string) (Species, bool) {
	switch Species(raw) {
	case SpeciesDog, SpeciesCat, SpeciesOther:
		return Species(raw), true
	case "":
		return SpeciesOther, true
	default:
		return "", false
	}
}

// Pet va desnormalizada en el cliente: una mascota por ficha. La reserva pública no la
// modifica; el admin la corrige con PUT /clients/{id}.
type Pet struct {
	Name    string
	Species Species
	Breed   string
}

// Client se identifica por TaxID (RUT). La reserva lo busca o lo crea.
type Client struct {
	ID        string
	FirstName string
	LastName  string
	TaxID     string
	Phone     string
	Email     string

	Pet Pet

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c Client) FullName() string {
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}
