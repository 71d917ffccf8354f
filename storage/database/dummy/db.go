// Package dummydb provides in-memory repositories for tests and local
// development without a running database.
package dummydb

import (
	"sync"

	"github.com/unmsm/scorely/core/entrega"
	"github.com/unmsm/scorely/core/grupo"
	"github.com/unmsm/scorely/core/invitacion"
	"github.com/unmsm/scorely/core/person"
	"github.com/unmsm/scorely/core/seccion"
	"github.com/unmsm/scorely/core/tarea"
)

type DB struct {
	mu sync.RWMutex

	personas      map[int]*person.Persona
	alumnos       map[int]*person.Alumno
	profesores    map[int]*person.Profesor
	secciones     map[int]*seccion.Seccion
	grupos        map[int]*grupo.Grupo
	memberships   map[int]*seccion.Membership
	tareas        map[int]*tarea.Tarea
	entregas      map[int]*entrega.Entrega
	entregaAlumno map[int]int // id_entrega -> id_alumno
	entregaGrupo  map[int]int // id_entrega -> id_grupo
	invitaciones  map[int]*invitacion.Invitacion

	seq int
}

func Open() (*DB, error) {
	db := &DB{
		personas:      make(map[int]*person.Persona),
		alumnos:       make(map[int]*person.Alumno),
		profesores:    make(map[int]*person.Profesor),
		secciones:     make(map[int]*seccion.Seccion),
		grupos:        make(map[int]*grupo.Grupo),
		memberships:   make(map[int]*seccion.Membership),
		tareas:        make(map[int]*tarea.Tarea),
		entregas:      make(map[int]*entrega.Entrega),
		entregaAlumno: make(map[int]int),
		entregaGrupo:  make(map[int]int),
		invitaciones:  make(map[int]*invitacion.Invitacion),
	}
	return db, nil
}

// nextID must be called with db.mu held.
func (db *DB) nextID() int {
	db.seq++
	return db.seq
}

// seed helpers

func (db *DB) AddPersona(p person.Persona) person.Persona {
	db.mu.Lock()
	defer db.mu.Unlock()
	p.ID = db.nextID()
	db.personas[p.ID] = &p
	return p
}

func (db *DB) AddAlumno(a person.Alumno) person.Alumno {
	db.mu.Lock()
	defer db.mu.Unlock()
	a.ID = db.nextID()
	if p, ok := db.personas[a.PersonaID]; ok {
		a.Persona = *p
	}
	db.alumnos[a.ID] = &a
	return a
}

func (db *DB) AddProfesor(p person.Profesor) person.Profesor {
	db.mu.Lock()
	defer db.mu.Unlock()
	p.ID = db.nextID()
	if per, ok := db.personas[p.PersonaID]; ok {
		p.Persona = *per
	}
	db.profesores[p.ID] = &p
	return p
}

func (db *DB) AddSeccion(s seccion.Seccion) seccion.Seccion {
	db.mu.Lock()
	defer db.mu.Unlock()
	s.ID = db.nextID()
	db.secciones[s.ID] = &s
	return s
}

func (db *DB) AddMembership(m seccion.Membership) seccion.Membership {
	db.mu.Lock()
	defer db.mu.Unlock()
	m.ID = db.nextID()
	db.memberships[m.ID] = &m
	return m
}

func (db *DB) AddTarea(t tarea.Tarea) tarea.Tarea {
	db.mu.Lock()
	defer db.mu.Unlock()
	t.ID = db.nextID()
	db.tareas[t.ID] = &t
	return t
}
