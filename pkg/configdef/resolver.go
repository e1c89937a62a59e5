package configdef

import "errors"

var (
	ErrConfigAlreadyExists = errors.New("config file already exists")
	ErrMissingModel        = errors.New("model file does not exist")
	ErrMissingVideo        = errors.New("video file does not exist")
)

type Resolver interface {
	Resolve() (Values, error)
}

type Creator interface {
	Create() error
}

type Destroyer interface {
	Destroy() error
}
