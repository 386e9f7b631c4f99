package models

// Closed string enums for property attributes. Values are stored as-is in the
// database; validity is checked at the API boundary, unknown values never
// reach a write.

type Material string

const (
	MaterialBrick          Material = "brick"
	MaterialMonolithic     Material = "monolithic"
	MaterialConcreteBlocks Material = "concrete_blocks"
	MaterialConcrete       Material = "concrete"
	MaterialAnother        Material = "another"
)

func (m Material) Valid() bool {
	switch m {
	case MaterialBrick, MaterialMonolithic, MaterialConcreteBlocks, MaterialConcrete, MaterialAnother:
		return true
	}
	return false
}

type Renovation string

const (
	RenovationAuthor       Renovation = "author"
	RenovationEuro         Renovation = "euro"
	RenovationMid          Renovation = "mid"
	RenovationRequired     Renovation = "required"
	RenovationBlackPlaster Renovation = "black_plaster"
)

func (r Renovation) Valid() bool {
	switch r {
	case RenovationAuthor, RenovationEuro, RenovationMid, RenovationRequired, RenovationBlackPlaster:
		return true
	}
	return false
}

type Repair string

const (
	RepairAuthor             Repair = "author"
	RepairDecorated          Repair = "decorated"
	RepairRequiresDecoration Repair = "requires_decoration"
	RepairWithoutDecoration  Repair = "without_decoration"
)

func (r Repair) Valid() bool {
	switch r {
	case RepairAuthor, RepairDecorated, RepairRequiresDecoration, RepairWithoutDecoration:
		return true
	}
	return false
}

// PropertyType distinguishes sale and rental listings.
type PropertyType string

const (
	TypeSale PropertyType = "sale"
	TypeRent PropertyType = "rent"
)

func (t PropertyType) Valid() bool {
	return t == TypeSale || t == TypeRent
}

// Label is the paid promotion tier of a listing.
type Label string

const (
	LabelVip     Label = "vip"
	LabelPremium Label = "premium"
	LabelUrgent  Label = "urgent"
)

func (l Label) Valid() bool {
	return l == LabelVip || l == LabelPremium || l == LabelUrgent
}

type ResidentialType string

const (
	ResidentialFreeLayout ResidentialType = "free_layout"
	ResidentialOnTime     ResidentialType = "on_time"
	ResidentialFinished   ResidentialType = "finished"
)

func (r ResidentialType) Valid() bool {
	return r == ResidentialFreeLayout || r == ResidentialOnTime || r == ResidentialFinished
}

// Status is the listing lifecycle state. Only active listings are publicly
// visible; moderation and canceled are reserved states with no API transition.
type Status string

const (
	StatusActive     Status = "active"
	StatusInactive   Status = "inactive"
	StatusModeration Status = "moderation"
	StatusCanceled   Status = "canceled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusModeration, StatusCanceled:
		return true
	}
	return false
}
