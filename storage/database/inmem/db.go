package inmemdb

import (
	"sync"

	"github.com/trezcool/fomu/core/customform"
)

type (
	DB struct {
		forms       *formTable
		submissions *submissionTable
	}

	formTable struct {
		mutex sync.RWMutex
		table map[string]*customform.CustomForm
	}

	submissionTable struct {
		mutex sync.RWMutex
		table map[string][]customform.Submission // {formID: submissions}
	}
)

func Open() *DB {
	return &DB{
		forms:       &formTable{table: make(map[string]*customform.CustomForm)},
		submissions: &submissionTable{table: make(map[string][]customform.Submission)},
	}
}
