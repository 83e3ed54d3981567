package natives

import "time"

func init() {
	Default.Register(&Native{
		Name:  "clock",
		Arity: 0,
		Fn: func(args []interface{}) interface{} {
			return float64(time.Now().UnixNano()) / float64(time.Second)
		},
	})
}
