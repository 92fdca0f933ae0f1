package model

// examGroups partitions students by exam. Exams keep the order of their first appearance
type examGroups struct {
	exams   []string
	members map[string][]int // Exam -> indexes of its students, in input order
	examOf  map[int]string   // Student id -> exam
}

func groupByExam(students []Student) examGroups {
	groups := examGroups{
		exams:   make([]string, 0),
		members: make(map[string][]int),
		examOf:  make(map[int]string, len(students)),
	}
	for i, student := range students {
		if _, ok := groups.members[student.Exam]; !ok {
			groups.exams = append(groups.exams, student.Exam)
		}
		groups.members[student.Exam] = append(groups.members[student.Exam], i)
		groups.examOf[student.Id] = student.Exam
	}
	return groups
}
