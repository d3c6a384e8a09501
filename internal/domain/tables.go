package domain

var Tables = []interface{}{
	&Event{},
	&Panchangam{},
	&Settings{},
}
