package cad

// DxfClass application class declared in the CLASSES section
type DxfClass struct {
	DxfName         string
	CppClassName    string
	ApplicationName string
	ProxyFlags      int32
	InstanceCount   int32
	WasZombie       bool
	IsEntity        bool
	// ItemClassID 498 for entities and 499 for objects
	ItemClassID int16
}

// ClassCollection classes by dxf name
type ClassCollection struct {
	list   []*DxfClass
	byName map[string]*DxfClass
}

// Add registers the class, a known name is replaced
func (c *ClassCollection) Add(cl *DxfClass) {
	if c.byName == nil {
		c.byName = make(map[string]*DxfClass)
	}
	if _, ok := c.byName[cl.DxfName]; !ok {
		c.list = append(c.list, cl)
	} else {
		for i, old := range c.list {
			if old.DxfName == cl.DxfName {
				c.list[i] = cl
			}
		}
	}
	c.byName[cl.DxfName] = cl
}

func (c *ClassCollection) Get(name string) (*DxfClass, bool) {
	cl, ok := c.byName[name]
	return cl, ok
}

func (c *ClassCollection) List() []*DxfClass {
	return c.list
}

func (c *ClassCollection) Len() int {
	return len(c.list)
}
