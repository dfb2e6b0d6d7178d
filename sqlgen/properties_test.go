package sqlgen_test

import (
	"fmt"
	"strings"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/fraiseql/fraiseql-go/sqlgen"
	"github.com/fraiseql/fraiseql-go/types"
	"github.com/fraiseql/fraiseql-go/where"
)

var _ = Describe("Compiled statements", func() {
	var compiler *sqlgen.Compiler
	shape := types.NewTableShape([]string{"pk", "id", "identifier", "tenant_id"}, "data")

	BeforeEach(func() {
		compiler = sqlgen.NewCompiler()
	})

	compile := func(input map[string]interface{}) (*types.CompiledQuery, error) {
		clause, err := where.Normalize(input)
		Expect(err).NotTo(HaveOccurred())
		return compiler.BuildSelect("v_user", clause, nil, nil, shape)
	}

	It("produces identical output for identical input", func() {
		input := map[string]interface{}{
			"email":     map[string]interface{}{"contains": "fraise"},
			"age":       map[string]interface{}{"gte": 18, "lt": 65},
			"tenant_id": "t-42",
			"active":    map[string]interface{}{"eq": true},
		}
		first, err := compile(input)
		Expect(err).NotTo(HaveOccurred())
		for i := 0; i < 50; i++ {
			again, err := compile(input)
			Expect(err).NotTo(HaveOccurred())
			Expect(again.Statement).To(Equal(first.Statement))
			Expect(again.Params).To(Equal(first.Params))
		}
	})

	It("never inlines a user value into the statement", func() {
		hostile := []string{
			`x'; DROP TABLE users; --`,
			`" OR 1=1 --`,
			`'); DELETE FROM v_user; --`,
		}
		for _, value := range hostile {
			q, err := compile(map[string]interface{}{
				"email": map[string]interface{}{"eq": value},
				"name":  map[string]interface{}{"contains": value},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(q.Statement).NotTo(ContainSubstring("DROP"))
			Expect(q.Statement).NotTo(ContainSubstring("DELETE"))
			Expect(q.Statement).NotTo(ContainSubstring("1=1"))
			Expect(q.Params).To(ContainElement(value))
		}
	})

	It("treats an empty filter as a neutral WHERE", func() {
		q, err := compile(map[string]interface{}{})
		Expect(err).NotTo(HaveOccurred())
		Expect(q.Statement).To(ContainSubstring(" WHERE TRUE"))
		Expect(q.Params).To(BeEmpty())
	})

	It("compiles empty membership lists to constant predicates", func() {
		q, err := compile(map[string]interface{}{
			"status": map[string]interface{}{"in": []interface{}{}},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(q.Statement).To(ContainSubstring("WHERE FALSE"))
		Expect(q.Params).To(BeEmpty())

		q, err = compile(map[string]interface{}{
			"status": map[string]interface{}{"nin": []interface{}{}},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(q.Statement).To(ContainSubstring("WHERE TRUE"))
	})

	It("prefers native columns over payload keys of the same name", func() {
		q, err := compile(map[string]interface{}{
			"tenant_id": map[string]interface{}{"eq": "t-42"},
			"email":     map[string]interface{}{"eq": "a@b.com"},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(q.Statement).To(ContainSubstring(`"tenant_id" = $`))
		Expect(q.Statement).NotTo(ContainSubstring(`'tenant_id'`))
		Expect(q.Statement).To(ContainSubstring(`("data" ->> 'email') = $`))
	})

	It("numbers placeholders consecutively across filter and pagination", func() {
		clause, err := where.Normalize(map[string]interface{}{
			"age": map[string]interface{}{"between": []interface{}{18, 65}},
		})
		Expect(err).NotTo(HaveOccurred())

		limit, offset := 10, 20
		q, err := compiler.BuildSelect("v_user", clause, nil,
			&types.QueryOptions{Limit: &limit, Offset: &offset}, shape)
		Expect(err).NotTo(HaveOccurred())
		for i := 1; i <= len(q.Params); i++ {
			Expect(q.Statement).To(ContainSubstring(fmt.Sprintf("$%d", i)))
		}
		Expect(q.Statement).NotTo(ContainSubstring(fmt.Sprintf("$%d", len(q.Params)+1)))
	})

	It("caps find-one at a single row no matter what the caller asked for", func() {
		limit := 50
		clause, err := where.Normalize(map[string]interface{}{"identifier": "acme"})
		Expect(err).NotTo(HaveOccurred())

		q, err := compiler.BuildSelectOne("v_user", clause, nil,
			&types.QueryOptions{Limit: &limit}, shape)
		Expect(err).NotTo(HaveOccurred())
		Expect(strings.Count(q.Statement, "LIMIT")).To(Equal(1))
		Expect(q.Params[len(q.Params)-1]).To(Equal(1))
	})

	It("reports the offending field and operator on rejection", func() {
		_, err := where.Normalize(map[string]interface{}{
			"age": map[string]interface{}{"betwen": []interface{}{1, 2}},
		})
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring(`"age"`))
		Expect(err.Error()).To(ContainSubstring(`"betwen"`))
	})
})
