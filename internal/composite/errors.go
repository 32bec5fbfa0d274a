package composite

import "errors"

var (
	ErrDecodeFailed = errors.New("composite input could not be decoded")
	ErrEncodeFailed = errors.New("composite output could not be encoded")
)
