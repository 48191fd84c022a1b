package utils

import "net/http"

// Doer 接口，*http.Client 以及测试替身都满足它
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// DoerFunc 把普通函数适配成 Doer
type DoerFunc func(*http.Request) (*http.Response, error)

func (f DoerFunc) Do(req *http.Request) (*http.Response, error) {
	return f(req)
}
